package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/taskhub/internal/access"
	"github.com/Skotchmaster/taskhub/internal/config"
	"github.com/Skotchmaster/taskhub/internal/db"
	"github.com/Skotchmaster/taskhub/internal/es"
	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/logging"
	authmw "github.com/Skotchmaster/taskhub/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/taskhub/internal/middleware/logging"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/service"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	httpserver "github.com/Skotchmaster/taskhub/internal/transport/http"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.OpenAny(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(initCtx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tokenCfg := cfg.Tokens()
	codec, err := tokens.NewCodec(tokenCfg, nil)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}
	issuer := tokens.NewIssuer(codec, tokenCfg)

	events := newPublisher(cfg, logger)
	search := newSearch(cfg, logger)

	r := repo.NewGormRepo(gdb)
	evaluator := access.NewEvaluator(r)
	store := service.NewRefreshStore(r, r, codec)
	resolver := &service.IdentityResolver{Codec: codec, Users: r}

	taskSvc := &service.TaskService{Repo: r, Access: evaluator, Events: events}
	if search != nil {
		taskSvc.Search = search
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Users:  r,
			Store:  store,
			Issuer: issuer,
			Hasher: hash.NewHasher(cfg.BcryptCost),
			Events: events,
		}},
		ProjectHandler: &httpserver.ProjectHTTP{Svc: &service.ProjectService{Repo: r, Access: evaluator, Events: events}},
		TaskHandler:    &httpserver.TaskHTTP{Svc: taskSvc},
		RequireAuth:    authmw.NewBearerAuth(resolver).RequireAuth,
		Ready:          db.Health{DB: gdb},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeLoop(ctx, store, cfg.TokenPurgeInterval, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db close error", "error", err)
	}

	logger.Info("shutdown complete")
}

func newPublisher(cfg config.Config, logger *slog.Logger) mykafka.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka disabled: no brokers configured")
		return mykafka.Nop{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mykafka.EnsureTopics(ctx, cfg.KafkaBrokers[0], mykafka.Topics()...); err != nil {
		logger.Warn("kafka topics not ensured", "error", err)
	}

	prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		logger.Warn("kafka disabled", "error", err)
		return mykafka.Nop{}
	}
	return prod
}

func newSearch(cfg config.Config, logger *slog.Logger) *es.TaskIndex {
	if cfg.ESURL == "" {
		logger.Info("task search disabled: no ES_URL")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := es.NewClient(ctx, es.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword})
	if err != nil {
		logger.Warn("task search disabled", "error", err)
		return nil
	}
	return es.NewTaskIndex(client, cfg.ESTaskIndex)
}

func purgeLoop(ctx context.Context, store *service.RefreshStore, every time.Duration, logger *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Error("refresh_purge_failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("refresh_purged", "count", n)
			}
		}
	}
}
