package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mailspectre/internal/config"
	"mailspectre/internal/queue"
	"mailspectre/internal/refdata"
	"mailspectre/internal/store"
	"mailspectre/internal/validator"
)

func main() {
	configPath := flag.String("config", os.Getenv("MAILSPECTRE_CONFIG"), "path to YAML config file")
	flag.Parse()

	// 1. Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// 2. Reference data. Dynamic sets are best effort: a missing CSV
	// degrades the store to static data and is reported by /api/health.
	data := refdata.NewStore()
	data.LoadDynamic(cfg.Data.FraudEmailsPath, cfg.Data.VerifiedCompaniesPath)

	// 3. Validation engine. If the full pipeline cannot be built the
	// service stays up in format-only mode rather than refusing requests.
	engine, err := validator.New(data, validator.Options{
		DNSTimeout:      cfg.DNS.Timeout,
		DNSCacheTTL:     cfg.DNS.CacheTTL,
		BreachURL:       cfg.Breach.URL,
		BreachTimeout:   cfg.Breach.Timeout,
		MaxFailedChecks: cfg.Scoring.MaxFailedChecks,
	})
	if err != nil {
		log.Printf("⚠️  Engine initialization failed (%v), falling back to basic validation", err)
		engine = validator.NewBasic()
	}

	// 4. Optional async pipeline. Bulk uploads need Redis and Postgres;
	// the synchronous API works without either.
	asyncEnabled := false
	if cfg.Database.URL != "" {
		fmt.Printf("🔌 Connecting to Redis at %s...\n", cfg.Redis.Addr)
		if err := queue.Init(cfg.Redis.Addr); err != nil {
			log.Fatalf("❌ Failed to connect to Redis: %v", err)
		}
		fmt.Println("🔌 Connecting to Database...")
		if err := store.Init(cfg.Database.URL); err != nil {
			log.Fatalf("❌ Failed to connect to DB: %v", err)
		}
		asyncEnabled = true
		fmt.Println("✅ Bulk upload pipeline enabled (Redis + PostgreSQL)")
	} else {
		fmt.Println("⚠️  DB_URL not set. Bulk upload endpoints disabled.")
	}

	// 5. Root context for background goroutines; cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if dnsCache := engine.DNSCache(); dnsCache != nil {
		dnsCache.StartCleanup(ctx, 5*time.Minute)
		fmt.Println("✅ DNS cache eviction goroutine started (interval: 5m)")
	}

	app := &app{cfg: cfg, engine: engine, data: data, asyncEnabled: asyncEnabled}

	// 6. Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/api/validate", enableCORS(app.validateHandler))
	mux.HandleFunc("/api/batch-validate", enableCORS(app.batchValidateHandler))
	mux.HandleFunc("/api/health", enableCORS(app.healthHandler))
	mux.HandleFunc("/", enableCORS(app.infoHandler))
	if asyncEnabled {
		mux.HandleFunc("/upload", enableCORS(requireAPIKey(cfg.APIKey, app.uploadHandler)))
		mux.HandleFunc("/status", enableCORS(requireAPIKey(cfg.APIKey, app.statusHandler)))
		mux.HandleFunc("/results", enableCORS(requireAPIKey(cfg.APIKey, app.resultsHandler)))
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 7. Graceful shutdown on SIGTERM / SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		mode := "full pipeline"
		if engine.Basic() {
			mode = "DEGRADED (format-only)"
		}
		fmt.Printf("🚀 MailSpectre API running on %s [%s]\n", cfg.Server.Addr, mode)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-quit
	fmt.Println("⏳ Shutdown signal received, draining in-flight requests...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	fmt.Println("✅ Server shut down cleanly.")
}

// enableCORS sets CORS headers and answers preflight requests with an
// empty success, independent of business logic.
func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}
