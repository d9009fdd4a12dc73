package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sepidshop/otpgate/internal/audit/entity"
	"github.com/sepidshop/otpgate/internal/pkg/clock"
	"github.com/sepidshop/otpgate/internal/pkg/goerror"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/jwt"
	"github.com/sepidshop/otpgate/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeDB struct {
	mu        sync.Mutex
	events    []entity.AuditEvent
	createErr error
	listErr   error
}

func (f *fakeDB) CreateAuditEvent(_ context.Context, ev entity.AuditEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	f.events = append(f.events, ev)

	return nil
}

func (f *fakeDB) ListAuditEvents(_ context.Context, et entity.EventType, limit, offset int32) ([]entity.AuditEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []entity.AuditEvent
	for _, ev := range f.events {
		if et != "" && ev.EventType != et {
			continue
		}
		out = append(out, ev)
	}

	if int(offset) >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if int(limit) < len(out) {
		out = out[:limit]
	}

	return out, nil
}

type counterID struct {
	mu sync.Mutex
	n  int64
}

func (c *counterID) Generate() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++

	return c.n
}

func newUsecase(t *testing.T, db *fakeDB) *Usecase {
	t.Helper()

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	return New(Dependency{
		RepoDB:     db,
		Validator:  v10,
		UID:        &counterID{},
		Clock:      &clock.Fixed{At: testNow},
		Instrument: instrument.NewNoop(),
	})
}

func validInput() ConsumeOtpEventInput {
	return ConsumeOtpEventInput{
		UserID:     7,
		Identifier: "9123456789",
		Channel:    "sms",
		Token:      "abc123",
	}
}

func TestConsumeOtpIssued(t *testing.T) {
	db := &fakeDB{}
	uc := newUsecase(t, db)

	err := uc.ConsumeOtpIssued(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, db.events, 1)
	assert.Equal(t, entity.EventOtpIssued, db.events[0].EventType)
	assert.EqualValues(t, 7, db.events[0].UserID)
	assert.Equal(t, testNow, db.events[0].CreatedAt)
	assert.Contains(t, db.events[0].Metadata, "correlation_id")
}

func TestConsumeOtpConfirmed(t *testing.T) {
	db := &fakeDB{}
	uc := newUsecase(t, db)

	err := uc.ConsumeOtpConfirmed(context.Background(), validInput())
	require.NoError(t, err)

	require.Len(t, db.events, 1)
	assert.Equal(t, entity.EventOtpConfirmed, db.events[0].EventType)
}

func TestConsumeMalformedEventIsDropped(t *testing.T) {
	db := &fakeDB{}
	uc := newUsecase(t, db)

	bad := validInput()
	bad.Channel = "carrier-pigeon"

	// A bad payload is logged and dropped so the broker never redelivers it.
	err := uc.ConsumeOtpIssued(context.Background(), bad)
	require.NoError(t, err)
	assert.Empty(t, db.events)
}

func TestConsumeRepoFailureRequestsRedelivery(t *testing.T) {
	db := &fakeDB{createErr: errors.New("db down")}
	uc := newUsecase(t, db)

	err := uc.ConsumeOtpIssued(context.Background(), validInput())
	require.Error(t, err)
}

func TestListEvents(t *testing.T) {
	db := &fakeDB{}
	uc := newUsecase(t, db)
	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 7})

	require.NoError(t, uc.ConsumeOtpIssued(ctx, validInput()))
	require.NoError(t, uc.ConsumeOtpConfirmed(ctx, validInput()))

	items, err := uc.ListEvents(ctx, ListEventsInput{})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = uc.ListEvents(ctx, ListEventsInput{EventType: "otp_confirmed"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, entity.EventOtpConfirmed, items[0].EventType)

	items, err = uc.ListEvents(ctx, ListEventsInput{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestListEventsRequiresAuth(t *testing.T) {
	uc := newUsecase(t, &fakeDB{})

	_, err := uc.ListEvents(context.Background(), ListEventsInput{})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
}

func TestListEventsInvalidFilter(t *testing.T) {
	uc := newUsecase(t, &fakeDB{})
	ctx := jwt.SetAuth(context.Background(), jwt.Claims{UserID: 7})

	_, err := uc.ListEvents(ctx, ListEventsInput{EventType: "password_reset"})

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, goerror.CodeInvalidInput, gerr.Code())

	_, err = uc.ListEvents(ctx, ListEventsInput{Limit: 500})
	require.Error(t, err)
}
