package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Rezmii/media-library/internal/api"
	"github.com/Rezmii/media-library/internal/config"
	"github.com/Rezmii/media-library/internal/db"
	"github.com/Rezmii/media-library/internal/jobs"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(); err != nil {
		log.Fatalf("schema setup failed: %v", err)
	}

	var queue *jobs.Queue
	if cfg.QueueEnabled() {
		queue = jobs.NewQueue(cfg.RedisAddr)
	}

	srv := api.NewServer(cfg, database, queue)

	if queue != nil {
		if err := queue.Start(); err != nil {
			log.Fatalf("job queue failed to start: %v", err)
		}
		defer queue.Shutdown()
		log.Printf("enrichment queue running against %s", cfg.RedisAddr)
	} else {
		log.Println("REDIS_ADDR not set, enrichment runs in-process")
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
