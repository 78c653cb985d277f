package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Apurer/clothes-shop-api/internal/app/api"
)

func main() {
	once := flag.Bool("once", false, "purge a single time and exit")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := api.RunSessionPurger(ctx, cfg, *once); err != nil {
		log.Fatalf("session purge failed: %v", err)
	}
}
