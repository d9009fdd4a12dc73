package event

const OtpIssuedDestination string = "auth.otp_issued"
const OtpIssuedConsumerAudit string = "auth_otp_issued_audit"

type OtpIssuedMessage struct {
	UserID     int64  `json:"user_id"`
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
	Token      string `json:"token"`
}
