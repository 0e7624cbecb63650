package main

import (
	"flag"
	"log"
	"os"

	"mailspectre/internal/config"
	"mailspectre/internal/queue"
	"mailspectre/internal/refdata"
	"mailspectre/internal/store"
	"mailspectre/internal/validator"
	"mailspectre/internal/worker"
)

func main() {
	configPath := flag.String("config", os.Getenv("MAILSPECTRE_CONFIG"), "path to YAML config file")
	flag.Parse()

	log.Println("🚀 Starting MailSpectre worker...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if cfg.Database.URL == "" {
		log.Fatal("❌ DB_URL (or database.url) is required for the worker")
	}

	if err := queue.Init(cfg.Redis.Addr); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	if err := store.Init(cfg.Database.URL); err != nil {
		log.Fatalf("❌ Failed to connect to DB: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	data := refdata.NewStore()
	data.LoadDynamic(cfg.Data.FraudEmailsPath, cfg.Data.VerifiedCompaniesPath)

	engine, err := validator.New(data, validator.Options{
		DNSTimeout:      cfg.DNS.Timeout,
		DNSCacheTTL:     cfg.DNS.CacheTTL,
		BreachURL:       cfg.Breach.URL,
		BreachTimeout:   cfg.Breach.Timeout,
		MaxFailedChecks: cfg.Scoring.MaxFailedChecks,
	})
	if err != nil {
		log.Fatalf("❌ Failed to build validation engine: %v", err)
	}

	worker.Start(engine)
}
