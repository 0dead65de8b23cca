package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/znsio/specmatic-product-catalog-go/internal/api"
	"github.com/znsio/specmatic-product-catalog-go/internal/config"
	"github.com/znsio/specmatic-product-catalog-go/internal/services"
	"github.com/znsio/specmatic-product-catalog-go/internal/views"
	"github.com/znsio/specmatic-product-catalog-go/pkg/logger"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.New("info").Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel)

	backendService := services.NewBackendService(cfg.BackendURL(), cfg.BackendTimeout)

	var opts []views.AppOption
	if cfg.KafkaEnabled {
		publisher := services.NewKafkaPublisher(cfg.KafkaBroker(), cfg.KafkaTopic, log)
		defer publisher.Close()
		opts = append(opts, views.WithEventPublisher(publisher))
	}

	app := views.NewApp(backendService, log, opts...)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Mount(ctx)

	// setup router and start server
	r, err := api.SetupRouter(app, backendService, log)
	if err != nil {
		log.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.WithField("backend", cfg.BackendURL()).Infof("Listening and serving HTTP on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server Shutdown Failed: %v", err)
	}
}
