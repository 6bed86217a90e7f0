package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tambeaditya101/next-ecom-api/internal/config"
	kafkax "github.com/tambeaditya101/next-ecom-api/internal/kafka"
	"github.com/tambeaditya101/next-ecom-api/internal/notify"
	"github.com/tambeaditya101/next-ecom-api/internal/orders"
	"github.com/tambeaditya101/next-ecom-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-worker",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, orders.TopicOrderPlaced, cfg.WorkerConcurrency)

	go func() {
		log.Printf("worker started: group=%s topic=%s workers=%d",
			cfg.WorkerGroup, orders.TopicOrderPlaced, cfg.WorkerConcurrency)
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
