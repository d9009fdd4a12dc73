// Package sms defines the contracts for sending SMS messages.
//
// Like the mail package, it keeps the application independent from a specific
// SMS provider: callers work with the SMS interface and Message payload, and
// the concrete gateway lives in this package.
package sms

import (
	"context"
	"io"
)

// Message represents an SMS payload.
type Message struct {
	// To is the recipient number in local format (e.g. 09XXXXXXXXX).
	To string
	// Body is the message text.
	Body string
	// Flash requests flash delivery (shown immediately, not stored) when
	// the gateway supports it.
	Flash bool
}

// SMS abstracts an SMS provider.
type SMS interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}
