package server

import (
	"context"
	"os"
	"time"

	"dice-analyzer/internal/dataset"
)

// watchDataset polls the dataset file's mtime and swaps in a freshly loaded
// table when it changes, then tells connected dashboards to refetch. A load
// failure keeps the previous table; the file may be mid-write.
func (s *Server) watchDataset(ctx context.Context) {
	var lastMod time.Time
	if info, err := os.Stat(s.cfg.DatasetPath); err == nil {
		lastMod = info.ModTime()
	}

	ticker := time.NewTicker(s.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		info, err := os.Stat(s.cfg.DatasetPath)
		if err != nil {
			s.logger.Debug("dataset stat failed", "path", s.cfg.DatasetPath, "error", err)
			continue
		}
		if !info.ModTime().After(lastMod) {
			continue
		}
		lastMod = info.ModTime()

		table, err := dataset.Load(s.cfg.DatasetPath)
		if err != nil {
			s.logger.Error("dataset reload failed, keeping previous table",
				"path", s.cfg.DatasetPath, "error", err)
			continue
		}

		s.mu.Lock()
		s.table = table
		s.mu.Unlock()

		s.logger.Info("dataset reloaded", "records", len(table.Records))
		s.hub.broadcast("reload")
	}
}
