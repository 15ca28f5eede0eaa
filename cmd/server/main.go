package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "textile-assistant/internal/adapters/web"
	"textile-assistant/internal/app"
	"textile-assistant/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	svc, cleanup, err := app.BuildService(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer cleanup()

	loaded, err := svc.EnsureLoaded(ctx)
	if err != nil {
		log.Fatalf("load orders: %v", err)
	}
	log.Printf("order store ready with %d records", loaded)

	addr := cfg.HTTPAddr
	if port := os.Getenv("SERVER_PORT"); port != "" {
		addr = ":" + port
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
