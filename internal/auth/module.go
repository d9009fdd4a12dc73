package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sepidshop/otpgate/internal/auth/inbound"
	"github.com/sepidshop/otpgate/internal/auth/outbound/db"
	"github.com/sepidshop/otpgate/internal/auth/outbound/dispatch"
	"github.com/sepidshop/otpgate/internal/auth/outbound/mq"
	"github.com/sepidshop/otpgate/internal/auth/usecase"
	"github.com/sepidshop/otpgate/internal/pkg/clock"
	"github.com/sepidshop/otpgate/internal/pkg/config"
	"github.com/sepidshop/otpgate/internal/pkg/goroutine"
	"github.com/sepidshop/otpgate/internal/pkg/hash"
	"github.com/sepidshop/otpgate/internal/pkg/idempotency"
	"github.com/sepidshop/otpgate/internal/pkg/instrument"
	"github.com/sepidshop/otpgate/internal/pkg/jwt"
	"github.com/sepidshop/otpgate/internal/pkg/mail"
	"github.com/sepidshop/otpgate/internal/pkg/messaging"
	"github.com/sepidshop/otpgate/internal/pkg/otp"
	"github.com/sepidshop/otpgate/internal/pkg/router"
	"github.com/sepidshop/otpgate/internal/pkg/sms"
	"github.com/sepidshop/otpgate/internal/pkg/uid"
	"github.com/sepidshop/otpgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool               `validate:"required"`
	Goroutine   *goroutine.Manager          `validate:"required"`
	Router      *router.Router              `validate:"required"`
	Idempotency idempotency.Idempotency     `validate:"required"`
	Messaging   messaging.Messaging         `validate:"required"`
	Mail        mail.Mail                   `validate:"required"`
	SMS         sms.SMS                     `validate:"required"`
	Config      config.Config               `validate:"required"`
	Instrument  instrument.Instrumentation  `validate:"required"`
	UID         uid.NumberID                `validate:"required"`
	OID         uid.StringID                `validate:"required"`
	Token       uid.StringID                `validate:"required"`
	Code        otp.CodeGenerator           `validate:"required"`
	HMAC        hash.Hash                   `validate:"required"`
	Bcrypt      hash.Hash                   `validate:"required"`
	Clock       clock.Clocker               `validate:"required"`
	Validator   validator.Validator         `validate:"required"`
	JWT         jwt.JWT                     `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	dispatcher := dispatch.NewSelector(
		dispatch.NewSMS(dep.SMS, dep.Config, dep.Instrument),
		dispatch.NewEmail(dep.Mail, dep.Config, dep.Instrument),
	)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		Dispatcher:    dispatcher,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		OID:           dep.OID,
		Token:         dep.Token,
		Code:          dep.Code,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
