package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictak/internal/api/controller"
	"ctchen222/tictak/internal/api/service"
	"ctchen222/tictak/internal/bot"
	"ctchen222/tictak/internal/config"
	"ctchen222/tictak/internal/db"
	"ctchen222/tictak/internal/engine"
	"ctchen222/tictak/internal/events"
	"ctchen222/tictak/internal/hub"
	"ctchen222/tictak/internal/logger"
	"ctchen222/tictak/internal/server"
	"ctchen222/tictak/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the yaml config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Otel)
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(cfg.SlogLevel())

	// Notifications always reach the log; Redis is optional.
	sinks := []events.Sink{events.NewLogSink(slog.Default())}
	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	switch {
	case errors.Is(err, db.ErrRedisDisabled):
		slog.Info("redis disabled, game events are not published")
	case err != nil:
		slog.Error("failed to initialize redis", "error", err)
		os.Exit(1)
	default:
		defer rdb.Close()
		sinks = append(sinks, events.NewRedisSink(rdb, cfg.Redis.EventsChannelPrefix))
	}

	calculator := bot.NewBot(bot.WithEasyOptimalChance(cfg.Game.EasyOptimalChance))
	h := hub.NewHub(calculator, events.NewMultiSink(sinks...), engine.WithComputerDelay(cfg.Game.ComputerDelay))
	hubDone := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(hubDone)
	}()

	guests := service.NewGuestService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := server.NewServer(h, guests, controller.NewGuestController(guests))

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	<-hubDone

	slog.Info("Server exiting")
}
