package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"textile-assistant/internal/adapters/repl"
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

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "count":
			count, err := svc.Count(ctx)
			if err != nil {
				log.Fatalf("count: %v", err)
			}
			fmt.Printf("%d orders stored\n", count)

		case "reload":
			loaded, err := svc.Reload(ctx)
			if err != nil {
				log.Fatalf("reload: %v", err)
			}
			fmt.Printf("Reloaded %d orders from %s\n", loaded, cfg.CSVPath)

		case "ask":
			if len(os.Args) < 3 {
				log.Fatal("Usage: app ask \"<question>\"")
			}
			if _, err := svc.EnsureLoaded(ctx); err != nil {
				log.Fatalf("load orders: %v", err)
			}
			answer, err := svc.Answer(ctx, os.Args[2])
			if err != nil {
				log.Fatalf("answer: %v", err)
			}
			fmt.Println(answer)

		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
		return
	}

	loaded, err := svc.EnsureLoaded(ctx)
	if err != nil {
		log.Fatalf("load orders: %v", err)
	}
	log.Printf("order store ready with %d records", loaded)

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
