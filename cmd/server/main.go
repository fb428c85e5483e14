package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stoktakip/internal/config"
	"stoktakip/internal/infra"
	"stoktakip/internal/kvstore"
	"stoktakip/internal/kvstore/memory"
	"stoktakip/internal/kvstore/redisstore"
	"stoktakip/internal/repository"
	"stoktakip/internal/router"
	"stoktakip/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	var (
		store kvstore.Store
		rdb   *redis.Client
	)
	switch cfg.StoreBackend {
	case "memory":
		log.Warn().Msg("using in-memory store — data will not survive a restart")
		store = memory.New()
	default:
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		store = redisstore.New(rdb)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker pool handles async jobs (low-stock alerts, repair revenue
	// recovery). It needs Redis for its queues, so the memory backend runs
	// without one.
	if rdb != nil {
		repairRepo := repository.NewRepairRepository(store)
		saleRepo := repository.NewSaleRepository(store)
		handlers := &worker.Handlers{
			RepairRevenue: worker.NewRepairRevenueWorker(repairRepo, saleRepo),
		}
		worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	}

	r := router.New(cfg, store, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("stoktakip backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
