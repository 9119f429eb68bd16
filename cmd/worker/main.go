package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/config"
	kafkax "github.com/ariefcatur/go-bookstore-orders.git/internal/kafka"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/ordercache"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/orders"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/postgres"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &ordercache.Service{
		Orders: &orders.PgStore{DB: db},
		Cache:  &ordercache.RedisCache{R: rdb, Service: cfg.ServiceName + "-worker"},
	}

	group := getenv("WORKER_GROUP", "order-cache")
	workers := atoiOr(os.Getenv("WORKER_COUNT"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers)

	go func() {
		log.Printf("worker started: group=%s topic=%s workers=%d", group, orders.TopicOrderPlaced, workers)
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down worker...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
