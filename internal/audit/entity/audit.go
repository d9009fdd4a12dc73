package entity

import (
	"time"

	"github.com/sepidshop/otpgate/internal/pkg/valueobject"
)

// EventType names the login lifecycle step an audit row records.
type EventType string

const (
	EventOtpIssued    EventType = "otp_issued"
	EventOtpConfirmed EventType = "otp_confirmed"
)

func EventTypeFromString(s string) EventType {
	switch s {
	case "otp_issued":
		return EventOtpIssued
	case "otp_confirmed":
		return EventOtpConfirmed
	default:
		return ""
	}
}

func (e EventType) String() string {
	return string(e)
}

// AuditEvent is one append-only row in the login audit trail.
type AuditEvent struct {
	ID         int64
	EventType  EventType
	UserID     int64
	Identifier string
	Channel    string
	Token      string
	Metadata   valueobject.JSONMap
	CreatedAt  time.Time
}
