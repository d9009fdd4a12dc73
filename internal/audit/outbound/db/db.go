package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sepidshop/otpgate/internal/audit/entity"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

type auditEventRow struct {
	ID         int64
	EventType  string
	UserID     int64
	Identifier string
	Channel    string
	Token      string
	Metadata   valueobject.JSONMap
	CreatedAt  time.Time
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("audit.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) CreateAuditEvent(ctx context.Context, ev entity.AuditEvent) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAuditEvent")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO audit_events (id, event_type, user_id, identifier, channel, token, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		ev.ID, ev.EventType.String(), ev.UserID, ev.Identifier, ev.Channel, ev.Token, ev.Metadata, ev.CreatedAt)

	return s.mapError(err)
}

func (s *DB) ListAuditEvents(ctx context.Context, eventType entity.EventType, limit, offset int32) (_ []entity.AuditEvent, err error) {
	ctx, span := s.startSpan(ctx, "ListAuditEvents")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx,
		`SELECT id, event_type, user_id, identifier, channel, token, metadata, created_at
		 FROM audit_events
		 WHERE ($1 = '' OR event_type = $1)
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		eventType.String(), limit, offset)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.AuditEvent, 0, limit)
	for rows.Next() {
		var ev auditEventRow
		if err = rows.Scan(&ev.ID, &ev.EventType, &ev.UserID, &ev.Identifier, &ev.Channel, &ev.Token, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}

		items = append(items, entity.AuditEvent{
			ID:         ev.ID,
			EventType:  entity.EventTypeFromString(ev.EventType),
			UserID:     ev.UserID,
			Identifier: ev.Identifier,
			Channel:    ev.Channel,
			Token:      ev.Token,
			Metadata:   ev.Metadata,
			CreatedAt:  ev.CreatedAt,
		})
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return items, nil
}
