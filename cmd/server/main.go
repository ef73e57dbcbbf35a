package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"route-order-service/internal/adapters/repositories"
	"route-order-service/internal/api"
	"route-order-service/internal/app"
	"route-order-service/internal/config"
	"route-order-service/internal/platform/db"
	"route-order-service/internal/platform/graceful"
	"route-order-service/internal/ports"
	"time"
)

// main is the application composition root.
// It wires the matrix provider and the optional history/sink adapters behind
// ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	if err := run(); err != nil {
		log.Printf("server: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	provider, err := app.NewMatrixProvider(cfg)
	if err != nil {
		return err
	}

	var repo ports.PlanRepository
	if cfg.DatabaseURL != "" {
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return err
		}
		repo = repositories.NewPGPlanRepository(conn)
	} else {
		log.Println("DATABASE_URL not set; plan history disabled")
	}

	sinks, closeSinks, err := app.NewSinks(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSinks()

	router := api.NewRouter(api.RouterDeps{
		ProviderName: cfg.Provider,
		Provider:     provider,
		Repo:         repo,
		Sinks:        sinks,
		APILimit:     cfg.APILimit,
		Concurrency:  cfg.MatrixConcurrency,
		DistanceUnit: cfg.DistanceUnit,
	})

	// Timeouts allow for several sequential matrix batches per request.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s provider=%s", cfg.Port, cfg.Provider)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
