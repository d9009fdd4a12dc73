package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier rejects input that is neither an email address nor
// an Iranian mobile number.
var ErrInvalidIdentifier = errors.New("identifier is not an email or iranian mobile number")

// DispatchError wraps a delivery failure with the channel it happened on.
type DispatchError struct {
	Channel Channel
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch via %s: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
