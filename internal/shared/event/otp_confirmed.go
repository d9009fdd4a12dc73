package event

const OtpConfirmedDestination string = "auth.otp_confirmed"
const OtpConfirmedConsumerAudit string = "auth_otp_confirmed_audit"

type OtpConfirmedMessage struct {
	UserID     int64  `json:"user_id"`
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
	Token      string `json:"token"`
}
