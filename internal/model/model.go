package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user who submits optimization jobs.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OptimizationJob is a single crew-optimization request against the combat
// engine: a ship/hostile matchup, an officer pool, and the search mode used
// to explore the crew space.
type OptimizationJob struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name,omitempty"`
	Ship         string          `json:"ship"`
	Hostile      string          `json:"hostile"`
	OfficerPool  []string        `json:"officer_pool"`
	Mode         string          `json:"mode"` // montecarlo, genetic, tiered
	Config       json.RawMessage `json:"config,omitempty"`
	Seed         int64           `json:"seed"`
	Status       string          `json:"status"` // queued, running, completed, failed, canceled
	Progress     float64         `json:"progress"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	StartedAt    *time.Time      `json:"started_at,omitempty"`
	FinishedAt   *time.Time      `json:"finished_at,omitempty"`
}

// JobConfig carries optional per-job tuning parameters, submitted as JSON
// inside OptimizationJob.Config. The zero value disables every optional
// feature (no analytical prefilter, no heuristics seed crews), matching
// spec.md §8's determinism guarantee unless a caller opts in.
type JobConfig struct {
	// AnalyticalPrefilter opts into pkg/optimizer.AnalyticalPrefilter
	// pruning the candidate set before Monte Carlo/tiered evaluation.
	AnalyticalPrefilter bool `json:"analytical_prefilter,omitempty"`
	// PruneFraction is the fraction of candidates dropped by the
	// analytical prefilter, in [0,1). Ignored unless AnalyticalPrefilter.
	PruneFraction float64 `json:"prune_fraction,omitempty"`
	// HeuristicsSeed is a heuristics seed file's contents
	// ("label:Captain,Bridge1,Bridge2:Below1,Below2,..." lines),
	// expanded into candidates injected ahead of the generated ones.
	HeuristicsSeed string `json:"heuristics_seed,omitempty"`
	// BelowDecksStrategy selects how HeuristicsSeed's below-decks
	// candidate lists expand: "ordered" (default, first three as-is) or
	// "exploration" (every combination).
	BelowDecksStrategy string `json:"below_decks_strategy,omitempty"`
}

// ParseConfig decodes Config into a JobConfig. An empty Config decodes to
// the all-defaults zero value rather than an error.
func (j OptimizationJob) ParseConfig() (JobConfig, error) {
	var cfg JobConfig
	if len(j.Config) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(j.Config, &cfg); err != nil {
		return JobConfig{}, err
	}
	return cfg, nil
}

// JobResult is one ranked crew candidate produced by a completed job.
type JobResult struct {
	ID               string  `json:"id"`
	JobID            string  `json:"job_id"`
	Rank             int     `json:"rank"`
	Captain          string  `json:"captain"`
	Bridge           string  `json:"bridge"`      // comma-joined, 2 officer ids
	BelowDecks       string  `json:"below_decks"` // comma-joined, 3 officer ids
	WinRate          float64 `json:"win_rate"`
	AvgHullRemaining float64 `json:"avg_hull_remaining"`
	Score            float64 `json:"score"`
}

// CatalogShip, CatalogHostile, and CatalogOfficer are the persisted forms of
// pkg/stfcdata's catalog records: a stable id plus the JSON payload the
// stfcdata loaders already know how to decode, so the database schema never
// has to track the combat engine's field list directly.
type CatalogShip struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

type CatalogHostile struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

type CatalogOfficer struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}
