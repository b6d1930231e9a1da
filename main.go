package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/sourabhtirthani/CodeCollab-backend/internal/chat"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/collab"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/config"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/http/http_server"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/http/statshandler"
	"github.com/sourabhtirthani/CodeCollab-backend/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Transport hub + WS server
	hub := ws.NewHub()
	wsSrv := ws.NewServer(hub, cfg.AllowedOrigins, cfg.WsReadLimit)

	// 4. Registries and their gateways
	roomRegistry := collab.NewRegistry()
	collab.NewGateway(roomRegistry, hub).Register(wsSrv)

	chatRegistry := chat.NewRegistry()
	chat.NewGateway(chatRegistry, hub).Register(wsSrv)

	// 5. HTTP + WS server
	stats := statshandler.New(hub, roomRegistry, chatRegistry)
	httpServer := http_server.NewHttpServer(cfg.HttpServerPort, cfg.AllowedOrigins, wsSrv, stats)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()
	Log.Info("Application is running", zap.Uint16("port", cfg.HttpServerPort))

	select {
	case <-ctx.Done():
		Log.Info("Shutdown signal received")
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Failed to shut down HTTP server", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}
}
