package entity

// Channel is the delivery channel of a one-time code.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

func ChannelFromString(s string) Channel {
	switch s {
	case "sms":
		return ChannelSMS
	case "email":
		return ChannelEmail
	default:
		return ""
	}
}

func (c Channel) String() string {
	return string(c)
}

// UserStatus is the lifecycle state of a user account.
type UserStatus string

const (
	UserStatusUnknown  UserStatus = ""
	UserStatusActive   UserStatus = "active"
	UserStatusBanned   UserStatus = "banned"
	UserStatusInactive UserStatus = "inactive"
)

// Ensure maps arbitrary stored values back onto a known status.
func (u UserStatus) Ensure() UserStatus {
	switch u {
	case UserStatusActive, UserStatusBanned, UserStatusInactive:
		return u
	default:
		return UserStatusUnknown
	}
}
