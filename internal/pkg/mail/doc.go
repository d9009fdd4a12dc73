// Package mail sends email. The OTP dispatcher only ever needs the Mail
// interface and the Message payload; the SMTP transport lives in this
// package so a provider swap never touches the auth flow.
package mail
