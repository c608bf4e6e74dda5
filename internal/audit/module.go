package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/refundly/phonegate/internal/audit/inbound"
	"github.com/refundly/phonegate/internal/audit/outbound/db"
	"github.com/refundly/phonegate/internal/audit/usecase"
	"github.com/refundly/phonegate/internal/pkg/clock"
	"github.com/refundly/phonegate/internal/pkg/config"
	"github.com/refundly/phonegate/internal/pkg/goroutine"
	"github.com/refundly/phonegate/internal/pkg/instrument"
	"github.com/refundly/phonegate/internal/pkg/messaging"
	"github.com/refundly/phonegate/internal/pkg/router"
	"github.com/refundly/phonegate/internal/pkg/uid"
	"github.com/refundly/phonegate/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
}

func New(dep Dependency) error {
	dbAudit := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbAudit,
		Validator:  dep.Validator,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
