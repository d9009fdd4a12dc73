package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	bcrypt    hash.Hash
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	token     uid.StringID
	code      otp.CodeGenerator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	sms       sms.SMS
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
