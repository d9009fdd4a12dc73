package inbound

import "time"

type IssueRequest struct {
	ID string `json:"id"`
}

type IssueResponse struct {
	Token            string `json:"token"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
}

func (IssueResponse) Message() string {
	return "If the identifier is reachable, we have sent a one-time code."
}

type ConfirmRequest struct {
	Otp string `json:"otp"`
}

type ConfirmResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ResendResponse struct {
	Token            string `json:"token"`
	RemainingSeconds int64  `json:"remaining_seconds,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

func (LogoutResponse) Message() string {
	return "You have been logged out."
}

type ProfileResponse struct {
	ID               int64      `json:"id,string"`
	Email            string     `json:"email,omitempty"`
	Mobile           string     `json:"mobile,omitempty"`
	Status           string     `json:"status"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at,omitempty"`
	MobileVerifiedAt *time.Time `json:"mobile_verified_at,omitempty"`
}
