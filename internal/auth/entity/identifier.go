package entity

import (
	"net/mail"
	"regexp"
	"strings"
)

// IdentifierKind tells which login identifier a user typed in.
type IdentifierKind int

const (
	IdentifierUnknown IdentifierKind = iota
	IdentifierEmail
	IdentifierMobile
)

// reIranMobile accepts the common spellings of an Iranian mobile number.
var reIranMobile = regexp.MustCompile(`^(\+98|98|0)?9\d{9}$`)

// Identifier is a classified login identifier. Value is the canonical form:
// the lowercased address for email, the bare 10-digit `9XXXXXXXXX` for mobile.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// ParseIdentifier classifies raw input as an email address or an Iranian
// mobile number and canonicalizes it. Anything else is ErrInvalidIdentifier.
func ParseIdentifier(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identifier{}, ErrInvalidIdentifier
	}

	if reIranMobile.MatchString(raw) {
		return Identifier{Kind: IdentifierMobile, Value: canonicalMobile(raw)}, nil
	}

	if strings.Contains(raw, "@") {
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Name != "" || addr.Address != raw {
			return Identifier{}, ErrInvalidIdentifier
		}

		return Identifier{Kind: IdentifierEmail, Value: strings.ToLower(raw)}, nil
	}

	return Identifier{}, ErrInvalidIdentifier
}

// canonicalMobile strips the +98 / 98 / 0 prefix down to `9XXXXXXXXX`.
func canonicalMobile(raw string) string {
	for _, prefix := range []string{"+98", "98", "0"} {
		if strings.HasPrefix(raw, prefix) && len(raw)-len(prefix) == 10 {
			return raw[len(prefix):]
		}
	}

	return raw
}

// Channel derives the delivery channel from the identifier variant.
func (i Identifier) Channel() Channel {
	if i.Kind == IdentifierMobile {
		return ChannelSMS
	}

	return ChannelEmail
}

// IsMobile reports whether the identifier is an Iranian mobile number.
func (i Identifier) IsMobile() bool {
	return i.Kind == IdentifierMobile
}
