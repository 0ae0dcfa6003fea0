package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/api"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/config"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/db"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/middleware"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/platform/logger"
	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/services"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	st, sqlDB, err := db.Open(cfg.DBPath, cfg.MigrationsDir)
	if err != nil {
		zlog.Fatal("abrir base de datos", "path", cfg.DBPath, "error", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			zlog.Warn("cerrar base de datos", "error", cerr)
		}
	}()

	signer := middleware.NewSigner(cfg.JWTSecret)

	auth := services.NewAuthService(st, signer)
	school := services.NewSchoolService(st, zlog)
	surveys := services.NewSurveyService(st, zlog)
	resolver := services.NewResolverService(st, zlog)
	responses := services.NewResponseService(st, resolver, zlog)
	stats := services.NewStatsService(st, resolver, zlog)
	export := services.NewExportService(stats)

	if err := seedAdmin(auth, zlog); err != nil {
		zlog.Fatal("crear administrador inicial", "error", err)
	}

	e := api.NewRouter(api.Deps{
		Auth:        auth,
		School:      school,
		Surveys:     surveys,
		Responses:   responses,
		Stats:       stats,
		Export:      export,
		Resolver:    resolver,
		Log:         zlog,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("servidor escuchando", "addr", cfg.Addr, "env", cfg.Env)
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("servidor", "error", err)
		}
	}()

	<-ctx.Done()
	zlog.Info("apagando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("apagado forzado", "error", err)
	}
}
