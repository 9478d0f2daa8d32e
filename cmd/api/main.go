// Package main запускает HTTP API и gRPC сервер здоровья
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/auth"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/config"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/grpc"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/handlers"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/jobs"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/jwt"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/logger"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/metrics"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/progress"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/questions"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/reports"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets/backend"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/users"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg.Sheets)
	if err != nil {
		return err
	}
	if _, ok := store.(sheets.Unconfigured); ok {
		logg.Warn("spreadsheet ID is not configured, every operation will fail until SPREADSHEET_ID is set")
	}

	sessionStore, closeSessions, err := openSessionStore(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closeSessions()

	loc := cfg.Location()
	m := metrics.New()

	usersService := users.NewService(users.NewRepository(store))
	sessions := session.NewManager(sessionStore, usersService, cfg.Auth.EmailDomain, cfg.Auth.SessionMaxAge, logg.Named("session"))
	attempts := progress.NewRepository(store, loc)

	h := handlers.NewHandler(
		sessions,
		questions.NewService(questions.NewRepository(store), sessions),
		progress.NewService(attempts, sessions, m, logg.Named("progress")),
		reports.NewService(sessions, usersService, attempts, reports.Options{
			Location:                     loc,
			ScopeTeacherProgressToRoster: cfg.Reports.ScopeTeacherProgressToRoster,
		}, logg.Named("reports")),
		m,
		logg.Named("http"),
	)

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h.Routes(auth.NewMiddleware(tokens, logg.Named("auth"))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer(logg.Named("grpc"))

	scheduler := jobs.NewScheduler(sessions, loc, logg.Named("jobs"))
	if err := scheduler.Start(cfg.Jobs.SessionPurgeCron); err != nil {
		return err
	}
	defer scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return grpcServer.Start(cfg.Server.GRPCPort)
	})
	g.Go(func() error {
		grpcServer.Watch(gctx, func(ctx context.Context) error {
			_, err := store.ListTables(ctx)
			return err
		}, time.Minute)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcServer.Stop()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openSessionStore(ctx context.Context, cfg *config.Config, logg *zap.Logger) (session.Store, func(), error) {
	switch cfg.Session.Driver {
	case "redis":
		client, err := session.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		logg.Info("session store: redis", zap.String("addr", cfg.Redis.Addr))
		return session.NewRedisStore(client, 2*cfg.Auth.SessionMaxAge), func() { _ = client.Close() }, nil
	case "postgres":
		db, err := session.OpenPostgres(ctx, cfg.Database.GetDSN())
		if err != nil {
			return nil, nil, err
		}
		if err := session.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logg.Info("session store: postgres")
		return session.NewPostgresStore(db), func() { _ = db.Close() }, nil
	}
	logg.Info("session store: memory")
	return session.NewMemoryStore(), func() {}, nil
}
