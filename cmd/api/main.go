package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/messaging"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := cfg.Attendance.Policy()
	if err != nil {
		return err
	}

	attendanceRepo, leaveRequestRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	broker, closeBroker, err := openPublisher(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBroker()

	hub := sse.NewHub(16)
	publisher := messaging.Fanout{hub}
	if broker != nil {
		publisher = messaging.Fanout{broker, hub}
	}

	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, policy, publisher,
		attendanceService.WithLogger(logger),
	)
	leaveSvc := leaveService.NewLeaveService(leaveRequestRepo, publisher,
		leaveService.WithLogger(logger),
		leaveService.WithLocation(policy.Location),
	)

	router := appHTTP.NewRouter(logger,
		appHTTP.RouterConfig{AllowedOrigins: cfg.App.AllowedOrigins, LogLevel: slog.LevelDebug},
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewStreamHandler(hub, 30*time.Second),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", server.Addr, "storage", cfg.Storage.Driver, "events", cfg.Events.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", cfg.App.ShutdownGrace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (attendance.AttendanceRepository, leave.LeaveRequestRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		logger.Info("connected to postgresql", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return postgresql.NewAttendanceRepository(db), postgresql.NewLeaveRequestRepository(db), db.Close, nil

	case config.StorageMongo:
		db, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error connecting to mongodb: %w", err)
		}
		closeDB := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				logger.Warn("failed to close mongodb client", "error", err)
			}
		}
		attendanceRepo, err := mongodb.NewAttendanceRepository(ctx, db)
		if err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		leaveRequestRepo, err := mongodb.NewLeaveRequestRepository(ctx, db)
		if err != nil {
			closeDB()
			return nil, nil, nil, err
		}
		logger.Info("connected to mongodb", "database", cfg.Mongo.Database)
		return attendanceRepo, leaveRequestRepo, closeDB, nil

	default:
		logger.Warn("using in-memory storage, records are lost on restart")
		return memory.NewAttendanceRepository(), memory.NewLeaveRequestRepository(), func() {}, nil
	}
}

// openPublisher returns the configured broker, or nil when events stay in process.
func openPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (event.Publisher, func(), error) {
	if cfg.Events.Driver != config.EventsRedis {
		logger.Warn("no event broker configured, events reach stream subscribers only")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	publisher := messaging.NewRedisPublisher(client, messaging.WithLogger(logger))
	if err := publisher.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	logger.Info("connected to redis", "addr", cfg.Redis.Addr)

	return publisher, func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "error", err)
		}
	}, nil
}
