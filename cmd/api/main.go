package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-bookstore-orders.git/internal/catalog"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/config"
	"github.com/ariefcatur/go-bookstore-orders.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-bookstore-orders.git/internal/kafka"
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
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	prod.Start(ctx)

	// Services & handlers
	orderSvc := &orders.Service{
		Store:       &orders.PgStore{DB: db},
		Events:      prod,
		Redis:       rdb,
		ServiceName: cfg.ServiceName,
	}
	catalogRepo := &catalog.Repo{DB: db}

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Service: orderSvc}).Register(router)
	(&httpx.CatalogHandler{Service: catalogRepo}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop accepting, flush buffered events
	cancel()
	prod.WaitClosed()
}
