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

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/zaiqa-kitchen/api/internal/cart"
	"github.com/zaiqa-kitchen/api/internal/catalog"
	"github.com/zaiqa-kitchen/api/internal/config"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/notify"
	"github.com/zaiqa-kitchen/api/internal/router"
	"github.com/zaiqa-kitchen/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	carts, err := cart.NewRedisRepository(ctx, rdb)
	if err != nil {
		log.Fatalf("Unable to connect to redis: %v", err)
	}

	cache, err := catalog.NewOptionCache(ctx, rdb)
	if err != nil {
		log.Fatalf("Unable to initialize option cache: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	var notifier *notify.WhatsAppNotifier
	if cfg.WhatsAppGatewayURL != "" {
		notifier = notify.NewWhatsAppNotifier(cfg.WhatsAppGatewayURL, cfg.WhatsAppPhone)
		go notifier.Run(ctx)
	} else {
		log.Println("WHATSAPP_GATEWAY_URL not set, order notifications disabled")
	}

	queries := database.New(pool)

	r := router.New(cfg, router.Deps{
		Queries:  queries,
		Pool:     pool,
		Carts:    carts,
		Cache:    cache,
		Hub:      hub,
		Notifier: notifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: server shutdown: %v", err)
	}
	if notifier != nil {
		notifier.Wait()
	}
}
