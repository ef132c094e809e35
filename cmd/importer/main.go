package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"dice-analyzer/internal/dataset"

	"github.com/bits-and-blooms/bloom/v3"
)

// The importer merges raw session exports into one cleaned dataset. Raw
// exports overlap (each covers a sliding episode window), so identical rows
// are suppressed with a bloom filter the same way repeated match IDs are
// skipped during collection.

var (
	outPath = flag.String("out", "rolls.db", "Output snapshot (.db) or cleaned CSV (.csv)")
)

// headerAliases maps raw export column names onto the canonical ones.
var headerAliases = map[string]string{
	"Episode_Num":   "episode",
	"Episode":       "episode",
	"Character":     "character",
	"Roll Category": "roll_type",
	"Roll Type":     "roll_type",
	"Die":           "die",
	"Total Value":   "total",
	"Total":         "total",
	"Damage":        "damage",
	"Kills":         "kill",
	"Kill":          "kill",
}

func canonical(name string) string {
	if alias, ok := headerAliases[name]; ok {
		return alias
	}
	return strings.ToLower(strings.TrimSpace(name))
}

func main() {
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "usage: importer [-out rolls.db] export1.csv [export2.csv ...]")
		os.Exit(1)
	}

	// Sized for a full campaign with headroom; the false-positive rate only
	// risks dropping a row that collides with an identical-looking one.
	seen := bloom.NewWithEstimates(100000, 0.0001)

	var records []dataset.Record
	duplicates := 0

	for i, path := range inputs {
		fmt.Printf("[%d/%d] Importing: %s\n", i+1, len(inputs), filepath.Base(path))

		fileRecords, skipped, err := importFile(path, seen)
		if err != nil {
			log.Fatalf("Failed to import %s: %v", path, err)
		}
		records = append(records, fileRecords...)
		duplicates += skipped
		fmt.Printf("  %d rows kept, %d duplicates skipped\n", len(fileRecords), skipped)
	}

	if len(records) == 0 {
		log.Fatal("No rows imported")
	}

	fmt.Printf("\nTotal: %d rows (%d duplicates suppressed)\n", len(records), duplicates)

	switch strings.ToLower(filepath.Ext(*outPath)) {
	case ".db", ".sqlite", ".sqlite3":
		if err := dataset.WriteSnapshot(*outPath, records); err != nil {
			log.Fatalf("Failed to write snapshot: %v", err)
		}
	case ".csv":
		if err := writeCSV(*outPath, records); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
	default:
		log.Fatalf("Unsupported output type: %s", *outPath)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}

// importFile parses one raw export, normalizing headers and skipping rows
// already seen in earlier files.
func importFile(path string, seen *bloom.BloomFilter) ([]dataset.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = canonical(name)
	}

	var records []dataset.Record
	skipped := 0
	line := 1
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		fields := make(map[string]string, len(cols))
		for i, col := range cols {
			if i < len(row) {
				fields[col] = row[i]
			}
		}

		rec, err := dataset.ParseRecord(fields, line)
		if err != nil {
			return nil, 0, err
		}

		key := fmt.Sprintf("%d|%s|%s|%s|%d|%d|%t",
			rec.Episode, rec.Character, rec.RollType, rec.Die, rec.Total, rec.Damage, rec.Kill)
		if seen.TestAndAddString(key) {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

func writeCSV(path string, records []dataset.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"episode", "character", "roll_type", "die", "total", "damage", "kill"}); err != nil {
		return err
	}
	for _, r := range records {
		kill := "false"
		if r.Kill {
			kill = "true"
		}
		row := []string{
			fmt.Sprint(r.Episode), r.Character, r.RollType, r.Die,
			fmt.Sprint(r.Total), fmt.Sprint(r.Damage), kill,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
