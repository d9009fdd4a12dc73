// Package dispatch delivers one-time codes to the user over the channel
// the identifier resolved to.
package dispatch

import (
	"context"

	"github.com/sepidshop/otpgate/internal/auth/entity"
)

// Delivery is one code delivery order.
type Delivery struct {
	Channel    Channel
	Identifier string
	Code       string
}

// Channel aliases the entity type so callers build deliveries without a
// second import.
type Channel = entity.Channel

// Dispatcher sends the code. Implementations retry internally and wrap
// terminal failures in entity.DispatchError.
type Dispatcher interface {
	Send(ctx context.Context, d Delivery) error
}

// Selector routes a delivery to the variant wired for its channel.
type Selector struct {
	sms   Dispatcher
	email Dispatcher
}

func NewSelector(sms, email Dispatcher) *Selector {
	return &Selector{sms: sms, email: email}
}

func (s *Selector) Send(ctx context.Context, d Delivery) error {
	if d.Channel == entity.ChannelSMS {
		return s.sms.Send(ctx, d)
	}

	return s.email.Send(ctx, d)
}
