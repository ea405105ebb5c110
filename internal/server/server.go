package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/causewaykb/causeway/internal/queue"
	mid "github.com/causewaykb/causeway/internal/server/middleware"
	"github.com/causewaykb/causeway/internal/util"
	"github.com/causewaykb/causeway/pkg/coverage"
	"github.com/causewaykb/causeway/pkg/logger"
	"github.com/causewaykb/causeway/pkg/store"
	fsstore "github.com/causewaykb/causeway/pkg/store/fs"
	pgstore "github.com/causewaykb/causeway/pkg/store/pgx"
	s3store "github.com/causewaykb/causeway/pkg/store/s3"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	jwksUrl := util.GetEnv("AUTH_URL") + "/jwks"
	k, err := keyfunc.NewDefault([]string{jwksUrl})
	if err != nil {
		logger.Fatal("Failed to load jwks keys", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &mid.App{
		Key:        &k,
		Thresholds: thresholdsFromEnv(),
	}

	databaseURL := util.GetEnv("DATABASE_URL")
	if databaseURL != "" {
		runMigrations(databaseURL)

		conn, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", "err", err)
		}
		defer conn.Close()

		app.DBConn = conn
		pg := pgstore.NewSource(conn)
		app.Source = pg
		app.Reports = pg
	} else {
		app.Source = corpusSourceFromEnv(ctx)
	}

	if util.GetEnv("RABBITMQ_HOST") != "" {
		que := queue.Init()
		defer que.Close()
		ch, err := que.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(ch); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = ch
	} else {
		logger.Warn("RABBITMQ_HOST not set, reindex requests will be rejected")
	}

	app.MasterAPIKey = util.GetEnv("MASTER_API_KEY")
	app.MasterUserID, _ = strconv.ParseInt(util.GetEnv("MASTER_USER_ID"), 10, 64)
	app.MasterUserRole = util.GetEnv("MASTER_USER_ROLE")

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("[Server] Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// corpusSourceFromEnv picks the read-only corpus backend when no
// database is configured: an object store when AWS_BUCKET is set,
// otherwise the wiki directory on disk.
func corpusSourceFromEnv(ctx context.Context) store.DataSource {
	if bucket := util.GetEnv("AWS_BUCKET"); bucket != "" {
		client, err := s3store.NewClient(ctx, s3store.ClientParams{
			Region:    util.GetEnvString("AWS_REGION", "us-east-1"),
			Endpoint:  util.GetEnv("AWS_ENDPOINT"),
			AccessKey: util.GetEnv("AWS_ACCESS_KEY_ID"),
			SecretKey: util.GetEnv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			logger.Fatal("Failed to create s3 client", "err", err)
		}
		return s3store.NewSource(client, bucket, util.GetEnv("AWS_PREFIX"))
	}

	src, err := fsstore.NewSource(fsstore.SourceParams{
		PagesDir: util.GetEnvString("WIKI_DIR", "./wiki"),
	})
	if err != nil {
		logger.Fatal("Failed to open wiki directory", "err", err)
	}
	return src
}

func thresholdsFromEnv() coverage.Thresholds {
	t := coverage.DefaultThresholds()
	t.OrphanMaxIncoming = int(util.GetEnvNumeric("COVERAGE_ORPHAN_MAX_INCOMING", t.OrphanMaxIncoming))
	t.MinImportance = int(util.GetEnvNumeric("COVERAGE_MIN_IMPORTANCE", t.MinImportance))
	t.UnderlinkedMaxOutgoing = int(util.GetEnvNumeric("COVERAGE_UNDERLINKED_MAX_OUTGOING", t.UnderlinkedMaxOutgoing))
	t.UnderlinkedMinWords = int(util.GetEnvNumeric("COVERAGE_UNDERLINKED_MIN_WORDS", t.UnderlinkedMinWords))
	t.LowDensityCutoff = util.GetEnvNumeric("COVERAGE_LOW_DENSITY_CUTOFF", int(t.LowDensityCutoff))
	t.RankSize = int(util.GetEnvNumeric("COVERAGE_RANK_SIZE", t.RankSize))
	return t
}

func runMigrations(databaseURL string) {
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		logger.Fatal("Failed to init migrations", "err", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}
