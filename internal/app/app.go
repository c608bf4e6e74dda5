package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/refundly/phonegate/internal/pkg/clock"
	"github.com/refundly/phonegate/internal/pkg/config"
	"github.com/refundly/phonegate/internal/pkg/goroutine"
	"github.com/refundly/phonegate/internal/pkg/hash"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/jwt"
	"github.com/refundly/phonegate/internal/pkg/messaging"
	"github.com/refundly/phonegate/internal/pkg/otp"
	"github.com/refundly/phonegate/internal/pkg/router"
	"github.com/refundly/phonegate/internal/pkg/sms"
	"github.com/refundly/phonegate/internal/pkg/uid"
	"github.com/refundly/phonegate/internal/pkg/validator"
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
	uid       uid.NumberID
	oid       uid.StringID
	uuid      uid.StringID
	codes     otp.Generator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
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
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
