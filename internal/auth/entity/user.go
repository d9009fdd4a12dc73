package entity

import "time"

// User is a provisioned account. Exactly one of Email or Mobile is set on
// first contact, the other stays empty until the user adds it.
type User struct {
	ID               int64
	Email            string
	Mobile           string
	Status           UserStatus
	EmailVerifiedAt  time.Time
	MobileVerifiedAt time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ContactFor returns the stored contact value for the identifier kind.
func (u User) ContactFor(kind IdentifierKind) string {
	if kind == IdentifierMobile {
		return u.Mobile
	}

	return u.Email
}

// NewUser carries the fields for first-contact provisioning. Credential is
// a random bcrypt placeholder so the account can never be used with a
// password.
type NewUser struct {
	ID         int64
	Identifier Identifier
	Credential string
	Status     UserStatus
}
