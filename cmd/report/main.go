package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"dice-analyzer/internal/dataset"
	"dice-analyzer/internal/filter"
	"dice-analyzer/internal/rollup"
	"dice-analyzer/internal/stats"

	"github.com/joho/godotenv"
)

var (
	datasetPath = flag.String("dataset", "", "Path to the roll dataset (.csv or .db snapshot)")
	fromEp      = flag.Int("from", 0, "First episode (default: dataset minimum)")
	toEp        = flag.Int("to", 0, "Last episode (default: dataset maximum)")
	characters  = flag.String("characters", "", "Comma-separated character subset (default: everyone)")
	guests      = flag.Bool("guests", true, "Include guests and NPCs")
	jsonOut     = flag.String("json", "", "Also export the full aggregate set to this file")
)

// reportExport is the data.json layout consumed by external tooling.
type reportExport struct {
	GeneratedAt string                `json:"generatedAt"`
	EpisodeMin  int                   `json:"episodeMin"`
	EpisodeMax  int                   `json:"episodeMax"`
	Report      stats.Report          `json:"report"`
	Timeseries  []rollup.Bucket       `json:"timeseries"`
	Frequency   []rollup.EpisodeCount `json:"frequency"`
}

func main() {
	flag.Parse()

	for _, path := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(path); err == nil {
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

	table, err := dataset.Load(path)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	cfg := filter.Everything(table)
	if *fromEp != 0 {
		cfg.EpisodeMin = *fromEp
	}
	if *toEp != 0 {
		cfg.EpisodeMax = *toEp
	}
	cfg.IncludeGuests = *guests
	if *characters != "" {
		for _, name := range strings.Split(*characters, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Characters = append(cfg.Characters, name)
			}
		}
	}
	if err := cfg.Validate(table); err != nil {
		log.Fatalf("Invalid filter: %v", err)
	}

	filtered := filter.Apply(table, cfg)
	report := stats.Aggregate(cfg, filtered)

	fmt.Printf("Episodes %d-%d, %d rolls\n\n", cfg.EpisodeMin, cfg.EpisodeMax, report.Overview.TotalRolls)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHARACTER\tROLLS\tAVG\tNAT 1\tNAT 20\tDAMAGE\tKILLS")
	for _, c := range report.Characters {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%d\t%d\t%d\t%d\n",
			c.Character, c.TotalRolls, c.AvgRoll, c.Nat1s, c.Nat20s, c.TotalDamage, c.Kills)
	}
	w.Flush()

	fmt.Printf("\nTotal damage: %d\n", report.Overview.TotalDamage)
	if report.Overview.TopKiller != "" {
		fmt.Printf("Top killer: %s\n", report.Overview.TopKiller)
	}

	if *jsonOut != "" {
		episodes := table.EpisodesIn(cfg.EpisodeMin, cfg.EpisodeMax)
		export := reportExport{
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			EpisodeMin:  cfg.EpisodeMin,
			EpisodeMax:  cfg.EpisodeMax,
			Report:      report,
			Timeseries:  rollup.ByEpisodeType(filtered, episodes, table.RollTypes),
			Frequency:   rollup.Frequency(filtered, episodes),
		}

		f, err := os.Create(*jsonOut)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *jsonOut, err)
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(export); err != nil {
			log.Fatalf("Failed to write %s: %v", *jsonOut, err)
		}
		fmt.Printf("Exported: %s\n", *jsonOut)
	}
}
