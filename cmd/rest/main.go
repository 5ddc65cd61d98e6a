package main

import (
	"context"
	"log"

	"leadgen-suite-be/internal/bootstrap"
	"leadgen-suite-be/internal/config"
	"leadgen-suite-be/internal/server"
	"leadgen-suite-be/internal/tracer"
	"leadgen-suite-be/pkg/database"
)

func main() {
	// 0. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Configuration
	cfg := config.Load()

	// 2. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Background workers
	ctx := context.Background()
	if err := container.NotificationService.Start(ctx); err != nil {
		log.Printf("Background notification worker error: %v", err)
	}
	if err := container.SearchService.StartRerunWorker(ctx); err != nil {
		log.Printf("Background rerun worker error: %v", err)
	}

	// 5. Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
