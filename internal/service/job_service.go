package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pggpgg/stfc-optimizer/internal/model"
	"github.com/pggpgg/stfc-optimizer/internal/repository"
	"github.com/pggpgg/stfc-optimizer/pkg/optimizer"
	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

var (
	ErrJobNotFound  = errors.New("job not found")
	ErrInvalidMode  = errors.New("mode must be montecarlo, genetic, or tiered")
	ErrEmptyPool    = errors.New("officer_pool must name at least six officers")
	ErrNotJobOwner  = errors.New("you do not own this job")
)

// JobService orchestrates optimization jobs end to end: submission,
// execution against the combat engine, and ranked-result persistence.
type JobService struct {
	jobRepo  repository.JobRepository
	cache    repository.JobCache
	registry *stfcdata.Registry
	hub      Broadcaster
}

// NewJobService creates a JobService. registry is the shared, read-only
// catalog handle built from CatalogRepository at startup.
func NewJobService(jobRepo repository.JobRepository, cache repository.JobCache, registry *stfcdata.Registry, hub Broadcaster) *JobService {
	if hub == nil {
		hub = NoopBroadcaster{}
	}
	return &JobService{jobRepo: jobRepo, cache: cache, registry: registry, hub: hub}
}

// SubmitJob validates and persists a new job in "queued" status, then
// enqueues it for the worker loop to pick up.
func (s *JobService) SubmitJob(ctx context.Context, userID string, job model.OptimizationJob) (*model.OptimizationJob, error) {
	switch job.Mode {
	case "montecarlo", "genetic", "tiered":
	default:
		return nil, ErrInvalidMode
	}
	if len(job.OfficerPool) > 0 && len(job.OfficerPool) < 6 {
		return nil, ErrEmptyPool
	}

	job.UserID = userID
	if err := s.jobRepo.Create(ctx, &job); err != nil {
		return nil, err
	}
	if err := s.cache.SetStatus(ctx, job.ID, "queued"); err != nil {
		log.Warn().Err(err).Str("jobId", job.ID).Msg("Failed to cache job status")
	}
	if err := s.cache.Enqueue(ctx, job.ID); err != nil {
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	return &job, nil
}

// GetJob returns a job, enforcing ownership.
func (s *JobService) GetJob(ctx context.Context, jobID, userID string) (*model.OptimizationJob, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.UserID != userID {
		return nil, ErrNotJobOwner
	}
	return job, nil
}

// ListJobs returns a user's jobs.
func (s *JobService) ListJobs(ctx context.Context, userID string) ([]model.OptimizationJob, error) {
	return s.jobRepo.ListByUser(ctx, userID)
}

// GetResults returns a completed job's ranked results, enforcing ownership.
func (s *JobService) GetResults(ctx context.Context, jobID, userID string) ([]model.JobResult, error) {
	if _, err := s.GetJob(ctx, jobID, userID); err != nil {
		return nil, err
	}
	return s.jobRepo.ResultsByJob(ctx, jobID)
}

// scopedRegistry builds a Registry whose officer index is narrowed to the
// job's requested pool, leaving ships/hostiles/bonus catalogs shared. An
// empty pool falls back to the full catalog.
func (s *JobService) scopedRegistry(pool []string) *stfcdata.Registry {
	if len(pool) == 0 || s.registry.Officers == nil {
		return s.registry
	}
	want := make(map[string]bool, len(pool))
	for _, id := range pool {
		want[id] = true
	}
	var filtered []stfcdata.Officer
	for _, o := range s.registry.Officers.All() {
		if want[o.ID] {
			filtered = append(filtered, o)
		}
	}
	scoped := *s.registry
	scoped.Officers = stfcdata.NewOfficerIndex(filtered)
	return &scoped
}

// RunJob executes one queued job synchronously: it resolves the scenario,
// runs the configured search mode, reports progress, and persists ranked
// results. Intended to be called from a worker loop (see Worker).
func (s *JobService) RunJob(ctx context.Context, jobID string) error {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrJobNotFound
	}

	cfg, err := job.ParseConfig()
	if err != nil {
		_ = s.jobRepo.UpdateStatus(ctx, jobID, "failed", fmt.Sprintf("invalid config: %v", err))
		_ = s.cache.SetStatus(ctx, jobID, "failed")
		return fmt.Errorf("invalid job config: %w", err)
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, "running", ""); err != nil {
		return err
	}
	_ = s.cache.SetStatus(ctx, jobID, "running")
	s.hub.BroadcastJobEvent(jobID, "job_started", nil)

	registry := s.scopedRegistry(job.OfficerPool)
	scenario := optimizer.Scenario{
		Ship:                   job.Ship,
		Hostile:                job.Hostile,
		Rounds:                 30,
		AllowSyntheticFallback: false,
	}

	var seedCrews []optimizer.CrewCandidate
	if cfg.HeuristicsSeed != "" {
		strategy := stfcdata.Ordered
		if cfg.BelowDecksStrategy == "exploration" {
			strategy = stfcdata.Exploration
		}
		var warnings []string
		seedCrews, warnings = optimizer.SeedCandidatesFromText(cfg.HeuristicsSeed, strategy)
		for _, w := range warnings {
			log.Warn().Str("jobId", jobID).Str("warning", w).Msg("Heuristics seed line ignored")
		}
	}

	onProgress := func(done, total int) {
		frac := 0.0
		if total > 0 {
			frac = float64(done) / float64(total)
		}
		_ = s.cache.SetProgress(ctx, jobID, frac)
		_ = s.jobRepo.UpdateProgress(ctx, jobID, frac)
		s.hub.BroadcastJobEvent(jobID, "job_progress", map[string]any{"progress": frac})
	}

	seed := uint64(job.Seed)
	var ranked []optimizer.RankedResult
	var runErr error

	switch job.Mode {
	case "montecarlo":
		candidates := optimizer.GenerateCandidates(registry, job.Ship, job.Hostile, seed, optimizer.DefaultCandidateStrategy(), seedCrews...)
		if cfg.AnalyticalPrefilter {
			candidates, runErr = optimizer.AnalyticalPrefilter(registry, scenario, candidates, optimizer.LinearAnalyticalModel{}, cfg.PruneFraction, seed)
			if runErr != nil {
				break
			}
		}
		results, err := optimizer.RunMonteCarloWithProgress(ctx, registry, scenario, candidates, 500, seed, true, onProgress)
		if err != nil {
			runErr = err
			break
		}
		ranked = optimizer.RankResults(results)
	case "genetic":
		geneticCfg := optimizer.DefaultGeneticConfig()
		ranked, runErr = optimizer.RunGeneticOptimizerRanked(ctx, registry, scenario, geneticCfg, seed, 1000,
			func(generation, maxGenerations int, bestFitness float64) {
				onProgress(generation, maxGenerations)
			})
	case "tiered":
		candidates := optimizer.GenerateCandidates(registry, job.Ship, job.Hostile, seed, optimizer.DefaultCandidateStrategy(), seedCrews...)
		if cfg.AnalyticalPrefilter {
			candidates, runErr = optimizer.AnalyticalPrefilter(registry, scenario, candidates, optimizer.LinearAnalyticalModel{}, cfg.PruneFraction, seed)
			if runErr != nil {
				break
			}
		}
		ranked, runErr = optimizer.RunTiered(ctx, registry, scenario, candidates, optimizer.DefaultTieredConfig(), seed)
	default:
		runErr = ErrInvalidMode
	}

	if runErr != nil {
		_ = s.jobRepo.UpdateStatus(ctx, jobID, "failed", runErr.Error())
		_ = s.cache.SetStatus(ctx, jobID, "failed")
		s.hub.BroadcastJobEvent(jobID, "job_failed", map[string]any{"error": runErr.Error()})
		return runErr
	}

	top := optimizer.TopN(ranked, 20)
	rows := make([]model.JobResult, 0, len(top))
	for i, r := range top {
		rows = append(rows, model.JobResult{
			Rank:             i + 1,
			Captain:          r.Candidate.Captain,
			Bridge:           r.Candidate.Bridge[0] + "," + r.Candidate.Bridge[1],
			BelowDecks:       r.Candidate.BelowDecks[0] + "," + r.Candidate.BelowDecks[1] + "," + r.Candidate.BelowDecks[2],
			WinRate:          r.WinRate,
			AvgHullRemaining: r.AvgHullRemaining,
			Score:            r.Score,
		})
	}
	if err := s.jobRepo.SaveResults(ctx, jobID, rows); err != nil {
		return err
	}
	if err := s.jobRepo.UpdateStatus(ctx, jobID, "completed", ""); err != nil {
		return err
	}
	_ = s.cache.SetProgress(ctx, jobID, 1.0)
	_ = s.cache.SetStatus(ctx, jobID, "completed")
	s.hub.BroadcastJobEvent(jobID, "job_completed", map[string]any{"result_count": len(rows)})
	return nil
}

// Worker pulls queued job ids from the cache and runs them one at a time.
// Multiple workers may run concurrently across processes since Dequeue is
// a blocking atomic pop.
type Worker struct {
	svc   *JobService
	cache repository.JobCache
}

// NewWorker creates a Worker bound to svc's job queue.
func NewWorker(svc *JobService, cache repository.JobCache) *Worker {
	return &Worker{svc: svc, cache: cache}
}

// Run dequeues and executes jobs until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	log.Info().Msg("Optimization worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Optimization worker stopped")
			return
		default:
		}

		jobID, err := w.cache.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("Dequeue failed, retrying")
			time.Sleep(time.Second)
			continue
		}
		if jobID == "" {
			continue
		}

		log.Info().Str("jobId", jobID).Msg("Running optimization job")
		if err := w.svc.RunJob(ctx, jobID); err != nil {
			log.Error().Err(err).Str("jobId", jobID).Msg("Job run failed")
		}
	}
}
