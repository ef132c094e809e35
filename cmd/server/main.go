package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dice-analyzer/internal/dataset"
	"dice-analyzer/internal/server"

	"github.com/joho/godotenv"
)

var (
	datasetPath = flag.String("dataset", "", "Path to the roll dataset (.csv or .db snapshot)")
	port        = flag.Int("port", 0, "HTTP port (default 8080, or PORT env)")
	watchEvery  = flag.Duration("watch", 2*time.Second, "Dataset file poll interval (0 disables live reload)")
)

func main() {
	flag.Parse()

	// Load .env - try a few locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			fmt.Printf("Loaded .env from: %s\n", path)
			break
		}
	}

	path := *datasetPath
	if path == "" {
		path = os.Getenv("DATASET_PATH")
	}
	if path == "" {
		path = "rolls.csv"
	}

	p := *port
	if p == 0 {
		if env := os.Getenv("PORT"); env != "" {
			v, err := strconv.Atoi(env)
			if err != nil {
				log.Fatalf("Invalid PORT %q: %v", env, err)
			}
			p = v
		}
	}

	table, err := dataset.Load(path)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	fmt.Printf("Loaded %d rolls across episodes %d-%d (%d characters)\n",
		len(table.Records), table.MinEpisode, table.MaxEpisode, len(table.Characters))

	srv, err := server.New(server.Config{
		Port:          p,
		DatasetPath:   path,
		WatchInterval: *watchEvery,
		Logger:        slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}, table)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal(err)
	}
}
