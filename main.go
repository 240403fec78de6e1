package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"macrolens/internal/api"
	"macrolens/internal/config"
	"macrolens/internal/container"
	"macrolens/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Printf("macrolens: %v", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. The container is always shut down
// before run returns.
func run(ctx context.Context) error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create application container: %w", err)
	}
	defer appContainer.Shutdown(context.Background())

	if err := appContainer.Init(ctx); err != nil {
		appContainer.Logger.Error("Failed to initialize container: %v", err)
		return err
	}

	uiServer, err := ui.NewServer(appContainer.Dashboard, appConfig.Server.GinMode, appContainer.Logger)
	if err != nil {
		appContainer.Logger.Error("Failed to initialize UI: %v", err)
		return err
	}

	handler := api.NewRouter(api.NewHandler(appContainer.Dashboard), uiServer.Handler(), appConfig.Server.AllowedOrigins)
	server := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appContainer.Logger.Warn("Server shutdown: %v", err)
		}
	}()

	appContainer.Logger.Info("Starting macrolens server on port %s", appConfig.Server.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appContainer.Logger.Error("Server failed: %v", err)
		return err
	}
	return nil
}
