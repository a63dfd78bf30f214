package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/api"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/db"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/labels"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/scan"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/solana"
	"github.com/taylorferran/solana-privacy-scanner-sub000/internal/watch"
)

func main() {
	log.Println("Starting Solana Privacy Scanner service...")

	// Optional .env for local development; production supplies real env vars.
	_ = godotenv.Load()

	// Persistence is optional: without DATABASE_URL the service still scans,
	// it just keeps no history.
	var dbConn *db.PostgresStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: failed to connect to PostgreSQL, continuing without scan history. Error: %v", err)
		} else {
			dbConn = conn
			defer dbConn.Close()
			if err := dbConn.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	}

	rpcClient := solana.NewClient(solana.Config{
		Endpoint: os.Getenv("SOLANA_RPC_ENDPOINT"),
	})
	if err := rpcClient.GetHealth(context.Background()); err != nil {
		log.Printf("Warning: RPC node health check failed: %v", err)
	}

	labelStore := labels.NewStore()
	if overlay := os.Getenv("LABEL_OVERLAY_FILE"); overlay != "" {
		if err := labelStore.LoadOverlay(overlay); err != nil {
			log.Printf("Warning: failed to load label overlay: %v", err)
		} else {
			log.Printf("Loaded label overlay from %s (%d labels total)", overlay, labelStore.Len())
		}
	}

	scanner := scan.NewScanner(rpcClient, labelStore)

	wsHub := api.NewHub()
	go wsHub.Run()

	// Optional watch list: comma-separated addresses rescanned periodically.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watched := os.Getenv("WATCH_ADDRESSES"); watched != "" {
		addresses := splitAndTrim(watched)
		interval := 15 * time.Minute
		if raw := os.Getenv("WATCH_INTERVAL"); raw != "" {
			if d, err := time.ParseDuration(raw); err == nil {
				interval = d
			}
		}
		watcher := watch.NewWatcher(scanner, wsHub, dbConn, addresses, interval)
		go watcher.Run(ctx)
	}

	r := api.SetupRouter(dbConn, scanner, labelStore, wsHub)

	port := getEnvOrDefault("PORT", "5340")
	log.Printf("Scanner service running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnvOrDefault returns the env var value or a safe default for
// non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
