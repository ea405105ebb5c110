package middleware

import (
	"context"

	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/store"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

// App bundles the shared service dependencies handed to every
// request: the selected corpus data source, the optional report
// store, the queue channel and auth material.
type App struct {
	DBConn     *pgxpool.Pool
	Queue      *amqp091.Channel
	Key        *keyfunc.Keyfunc
	Source     store.DataSource
	Reports    ReportStore
	Thresholds coverage.Thresholds

	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
}

// ReportStore serves stored coverage reports when a database is
// configured; nil means reports are always computed live.
type ReportStore interface {
	LatestReport(ctx context.Context) (*coverage.Report, string, error)
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app, nil}
			return next(cc)
		}
	}
}
