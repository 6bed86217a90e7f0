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

	"github.com/tambeaditya101/next-ecom-api/internal/auth"
	"github.com/tambeaditya101/next-ecom-api/internal/catalog"
	"github.com/tambeaditya101/next-ecom-api/internal/checkout"
	"github.com/tambeaditya101/next-ecom-api/internal/config"
	"github.com/tambeaditya101/next-ecom-api/internal/httpx"
	kafkax "github.com/tambeaditya101/next-ecom-api/internal/kafka"
	"github.com/tambeaditya101/next-ecom-api/internal/orders"
	"github.com/tambeaditya101/next-ecom-api/internal/postgres"
	"github.com/tambeaditya101/next-ecom-api/internal/redisx"
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

	secret := []byte(cfg.JWTSecret)
	router := httpx.NewRouter()

	ah := &httpx.AuthHandler{
		Users:      &auth.Repo{DB: db},
		JWTSecret:  secret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
	}
	ah.Register(router)

	ph := &httpx.ProductsHandler{
		Catalog:   &catalog.Repo{DB: db},
		Redis:     rdb,
		JWTSecret: secret,
	}
	ph.Register(router)

	ch := &httpx.CheckoutHandler{
		Service: &checkout.Service{
			Store:       &checkout.Repo{DB: db},
			Producer:    prod,
			Redis:       rdb,
			ServiceName: cfg.ServiceName,
		},
		JWTSecret: secret,
	}
	ch.Register(router)

	oh := &httpx.OrdersHandler{
		Repo:      &orders.Repo{DB: db},
		JWTSecret: secret,
	}
	oh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop inbox -> flush & close writer
	cancel()
	prod.WaitClosed()
}
