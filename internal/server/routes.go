package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"dice-analyzer/internal/dataset"
	"dice-analyzer/internal/filter"
	"dice-analyzer/internal/rollup"
	"dice-analyzer/internal/stats"
	"dice-analyzer/web"
)

func (s *Server) registerRoutes(mux *http.ServeMux) error {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/meta", s.handleMeta)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/rolltypes", s.handleRollTypes)
	mux.HandleFunc("GET /api/nats", s.handleNats)
	mux.HandleFunc("GET /api/frequency", s.handleFrequency)
	mux.HandleFunc("GET /api/timeseries", s.handleTimeseries)
	mux.HandleFunc("GET /ws", s.handleWS)

	assets, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return fmt.Errorf("server: embedded assets: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(assets)))
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, filter.ErrInvalidRange) || errors.Is(err, filter.ErrUnknownCharacter) || errors.Is(err, errBadParam) {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

var errBadParam = errors.New("bad query parameter")

// parseConfig builds a validated filter config from the request's query
// string. Missing bounds default to the full dataset range; guests are
// included unless guests=false.
func parseConfig(r *http.Request, t *dataset.Table) (filter.Config, error) {
	cfg := filter.Everything(t)
	q := r.URL.Query()

	if raw := q.Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: from=%q", errBadParam, raw)
		}
		cfg.EpisodeMin = v
	}
	if raw := q.Get("to"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: to=%q", errBadParam, raw)
		}
		cfg.EpisodeMax = v
	}
	if raw := q.Get("guests"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: guests=%q", errBadParam, raw)
		}
		cfg.IncludeGuests = v
	}
	if raw := q.Get("characters"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Characters = append(cfg.Characters, name)
			}
		}
	}

	if err := cfg.Validate(t); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleMeta feeds the dashboard controls: episode bounds, the character
// and roll-type universes, and the cast list.
func (s *Server) handleMeta(w http.ResponseWriter, _ *http.Request) {
	t := s.Table()
	writeJSON(w, map[string]any{
		"minEpisode": t.MinEpisode,
		"maxEpisode": t.MaxEpisode,
		"characters": t.Characters,
		"cast":       dataset.MainCast,
		"rollTypes":  t.RollTypes,
		"records":    len(t.Records),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	t := s.Table()
	cfg, err := parseConfig(r, t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, stats.Aggregate(cfg, filter.Apply(t, cfg)))
}

// handleRollTypes returns the roll-type distribution for a single character
// (the pie chart has its own character selector).
func (s *Server) handleRollTypes(w http.ResponseWriter, r *http.Request) {
	t := s.Table()
	name := r.URL.Query().Get("character")
	if name == "" {
		writeError(w, fmt.Errorf("%w: character is required", errBadParam))
		return
	}

	cfg, err := parseConfig(r, t)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg.Characters = []string{name}
	if err := cfg.Validate(t); err != nil {
		writeError(w, err)
		return
	}

	report := stats.Aggregate(cfg, filter.Apply(t, cfg))
	writeJSON(w, map[string]any{
		"character": name,
		"rollTypes": report.Characters[0].RollTypes,
		"total":     report.Characters[0].TotalRolls,
	})
}

func (s *Server) handleNats(w http.ResponseWriter, r *http.Request) {
	t := s.Table()
	cfg, err := parseConfig(r, t)
	if err != nil {
		writeError(w, err)
		return
	}

	type natRow struct {
		Character string `json:"character"`
		Nat1s     int    `json:"nat1s"`
		Nat20s    int    `json:"nat20s"`
	}
	report := stats.Aggregate(cfg, filter.Apply(t, cfg))
	rows := make([]natRow, 0, len(report.Characters))
	for _, c := range report.Characters {
		rows = append(rows, natRow{Character: c.Character, Nat1s: c.Nat1s, Nat20s: c.Nat20s})
	}
	writeJSON(w, rows)
}

func (s *Server) handleFrequency(w http.ResponseWriter, r *http.Request) {
	t := s.Table()
	cfg, err := parseConfig(r, t)
	if err != nil {
		writeError(w, err)
		return
	}
	episodes := t.EpisodesIn(cfg.EpisodeMin, cfg.EpisodeMax)
	writeJSON(w, rollup.Frequency(filter.Apply(t, cfg), episodes))
}

func (s *Server) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	t := s.Table()
	cfg, err := parseConfig(r, t)
	if err != nil {
		writeError(w, err)
		return
	}
	episodes := t.EpisodesIn(cfg.EpisodeMin, cfg.EpisodeMax)
	writeJSON(w, rollup.ByEpisodeType(filter.Apply(t, cfg), episodes, t.RollTypes))
}
