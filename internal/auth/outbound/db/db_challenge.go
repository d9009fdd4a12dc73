package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sepidshop/otpgate/internal/auth/entity"
)

const challengeColumns = `id, user_id, identifier, channel, token, code, used, created_at, expires_at`

func scanChallenge(row pgx.Row) (*entity.Challenge, error) {
	var (
		ch      entity.Challenge
		channel string
	)

	err := row.Scan(&ch.ID, &ch.UserID, &ch.Identifier, &channel, &ch.Token,
		&ch.Code, &ch.Used, &ch.CreatedAt, &ch.ExpiresAt)
	if err != nil {
		return nil, err
	}

	ch.Channel = entity.ChannelFromString(channel)

	return &ch, nil
}

func (s *DB) GetChallengeByToken(ctx context.Context, token string) (_ *entity.Challenge, err error) {
	ctx, span := s.startSpan(ctx, "GetChallengeByToken")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges WHERE token = $1`, token)

	ch, err := scanChallenge(row)
	if err != nil {
		return nil, s.mapError(err)
	}

	return ch, nil
}

// CreateChallengeIfNoneActive inserts the challenge only when the
// identifier has no unused, unexpired challenge. The check and the insert
// run in one transaction under an advisory lock on the identifier, so two
// concurrent requests cannot both insert. The second caller gets the
// existing row back with created=false.
func (s *DB) CreateChallengeIfNoneActive(ctx context.Context, ch entity.Challenge) (_ *entity.Challenge, created bool, err error) {
	ctx, span := s.startSpan(ctx, "CreateChallengeIfNoneActive")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer s.rollback(ctx, tx)

	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ch.Identifier); err != nil {
		return nil, false, s.mapError(err)
	}

	row := tx.QueryRow(ctx,
		`SELECT `+challengeColumns+` FROM challenges
		 WHERE identifier = $1 AND used = false AND expires_at > $2
		 ORDER BY created_at DESC LIMIT 1`,
		ch.Identifier, ch.CreatedAt)

	existing, err := scanChallenge(row)
	if err == nil {
		if err = tx.Commit(ctx); err != nil {
			return nil, false, s.mapError(err)
		}

		return existing, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, s.mapError(err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO challenges (id, user_id, identifier, channel, token, code, used, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)`,
		ch.ID, ch.UserID, ch.Identifier, ch.Channel.String(), ch.Token, ch.Code, ch.CreatedAt, ch.ExpiresAt)
	if err != nil {
		return nil, false, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, false, s.mapError(err)
	}

	return &ch, true, nil
}

// ConsumeChallenge flips used from false to true exactly once. The bool
// reports whether this call won the flip.
func (s *DB) ConsumeChallenge(ctx context.Context, token string, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeChallenge")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE challenges SET used = true, consumed_at = $1 WHERE token = $2 AND used = false`,
		at, token)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// VoidChallenge kills a challenge whose code could not be delivered so the
// identifier is not locked out for the rest of the window.
func (s *DB) VoidChallenge(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "VoidChallenge")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`UPDATE challenges SET used = true WHERE id = $1 AND used = false`, id)

	return s.mapError(err)
}
