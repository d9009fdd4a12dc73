package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/sepidshop/otpgate/internal/auth/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
)

func (s *DB) CreateRefreshToken(ctx context.Context, rt entity.RefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "CreateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at) VALUES ($1, $2, $3, $4)`,
		rt.ID, rt.UserID, rt.Token, rt.ExpiresAt)

	return s.mapError(err)
}

// GetRefreshTokenInfo resolves a stored token hash together with its owner.
func (s *DB) GetRefreshTokenInfo(ctx context.Context, tokenHash string) (_ *entity.RefreshTokenInfo, err error) {
	ctx, span := s.startSpan(ctx, "GetRefreshTokenInfo")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT rt.id, rt.token, rt.expires_at, rt.revoked, rt.replaced_by_token_id,
		        u.id, COALESCE(u.mobile, u.email), u.status
		 FROM refresh_tokens rt
		 JOIN users u ON u.id = rt.user_id
		 WHERE rt.token = $1`,
		tokenHash)

	var (
		info       entity.RefreshTokenInfo
		replacedBy pgtype.Int8
		status     string
	)

	err = row.Scan(&info.RefreshID, &info.RefreshToken, &info.RefreshExpiresAt,
		&info.RefreshRevoked, &replacedBy, &info.UserID, &info.UserIdentifier, &status)
	if err != nil {
		return nil, s.mapError(err)
	}

	if replacedBy.Valid {
		info.RefreshReplacedByTokenID = &replacedBy.Int64
	}
	info.UserStatus = entity.UserStatus(status)

	return &info, nil
}

func (s *DB) RevokeRefreshToken(ctx context.Context, tokenHash string) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE token = $1 AND revoked = false`, tokenHash)

	return s.mapError(err)
}

func (s *DB) RevokeAllRefreshToken(ctx context.Context, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "RevokeAllRefreshToken")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE user_id = $1 AND revoked = false`, userID)

	return s.mapError(err)
}

// RotateRefreshToken revokes the old token, links the replacement and
// inserts it in one transaction. goerror.ErrNotFound means the old token
// was already rotated or revoked by a concurrent request.
func (s *DB) RotateRefreshToken(ctx context.Context, ro entity.RotateRefreshToken) (err error) {
	ctx, span := s.startSpan(ctx, "RotateRefreshToken")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer s.rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true, replaced_by_token_id = $1
		 WHERE id = $2 AND revoked = false`,
		ro.NewID, ro.OldID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token, expires_at) VALUES ($1, $2, $3, $4)`,
		ro.NewID, ro.UserID, ro.NewToken, ro.NewExpiresAt)
	if err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}
