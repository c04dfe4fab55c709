package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-app/backend/internal/auth"
	"todo-app/backend/internal/config"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/router"
	"todo-app/backend/internal/session"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	issueAdminToken := flag.Bool("issue-admin-token", false, "print a fresh admin token and exit")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "cause", err.Error())
		os.Exit(1)
	}

	if *issueAdminToken {
		token, err := auth.IssueAdminToken(cfg.Auth.AdminSecret, cfg.Auth.AdminTokenTTL)
		if err != nil {
			slog.Error("failed to issue admin token", "cause", err.Error())
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	db, err := openDatabase(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "driver", cfg.Database.Driver, "cause", err.Error())
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		slog.Error("failed to run migrations", "cause", err.Error())
		os.Exit(1)
	}

	store := session.NewStore(session.StoreConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		TTL:          cfg.Session.TTL,
	})
	defer store.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
	if err := store.Ping(pingCtx); err != nil {
		cancel()
		slog.Error("failed to connect to session store", "addr", cfg.GetRedisAddr(), "cause", err.Error())
		os.Exit(1)
	}
	cancel()

	engine := router.New(cfg, db, store)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", server.Addr, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "cause", err.Error())
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown did not finish cleanly", "cause", err.Error())
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDatabaseDSN())
	case "postgres":
		dialector = postgres.Open(cfg.GetDatabaseDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}
