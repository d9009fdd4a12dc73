package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sepidshop/otpgate/internal/auth/entity"
)

const userColumns = `id, email, mobile, status, email_verified_at, mobile_verified_at, created_at, updated_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		user             entity.User
		email, mobile    pgtype.Text
		status           string
		emailVerifiedAt  pgtype.Timestamptz
		mobileVerifiedAt pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)

	err := row.Scan(&user.ID, &email, &mobile, &status, &emailVerifiedAt,
		&mobileVerifiedAt, &user.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	user.Mobile = mobile.String
	user.Status = entity.UserStatus(status)
	if emailVerifiedAt.Valid {
		user.EmailVerifiedAt = emailVerifiedAt.Time
	}
	if mobileVerifiedAt.Valid {
		user.MobileVerifiedAt = mobileVerifiedAt.Time
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	}

	return &user, nil
}

// GetUserByIdentifier looks the user up on the column matching the
// identifier kind.
func (s *DB) GetUserByIdentifier(ctx context.Context, ident entity.Identifier) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByIdentifier")
	defer func() { s.endSpan(span, err) }()

	column := "email"
	if ident.IsMobile() {
		column = "mobile"
	}

	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, ident.Value)

	user, err := scanUser(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return user, nil
}

// CreateUser inserts a first-contact account with only the contacted
// column set. A unique violation maps to goerror.ErrConflict so the caller
// can re-fetch the row a concurrent request created.
func (s *DB) CreateUser(ctx context.Context, user entity.NewUser) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	var email, mobile pgtype.Text
	if user.Identifier.IsMobile() {
		mobile = pgtype.Text{String: user.Identifier.Value, Valid: true}
	} else {
		email = pgtype.Text{String: user.Identifier.Value, Valid: true}
	}

	_, err = s.conn.Exec(ctx,
		`INSERT INTO users (id, email, mobile, password, status) VALUES ($1, $2, $3, $4, $5)`,
		user.ID, email, mobile, user.Credential, string(user.Status))

	return s.mapError(err)
}

// MarkIdentifierVerified stamps the verified-at column for the contacted
// identifier, only when it is still NULL. Calling it again is a no-op.
func (s *DB) MarkIdentifierVerified(ctx context.Context, userID int64, kind entity.IdentifierKind, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkIdentifierVerified")
	defer func() { s.endSpan(span, err) }()

	column := "email_verified_at"
	if kind == entity.IdentifierMobile {
		column = "mobile_verified_at"
	}

	_, err = s.conn.Exec(ctx,
		`UPDATE users SET `+column+` = $1, updated_at = $1 WHERE id = $2 AND `+column+` IS NULL`,
		at, userID)

	return s.mapError(err)
}
