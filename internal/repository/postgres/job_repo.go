package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pggpgg/stfc-optimizer/internal/model"
)

// JobRepo handles optimization job and result database operations.
type JobRepo struct {
	db *sql.DB
}

// NewJobRepo creates a JobRepo.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

// Create inserts a new job in "queued" status and populates job.ID/CreatedAt.
func (r *JobRepo) Create(ctx context.Context, job *model.OptimizationJob) error {
	pool := strings.Join(job.OfficerPool, ",")
	cfg := job.Config
	if cfg == nil {
		cfg = json.RawMessage(`{}`)
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO optimization_jobs (user_id, name, ship, hostile, officer_pool, mode, config, seed, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'queued')
		 RETURNING id, created_at`,
		job.UserID, job.Name, job.Ship, job.Hostile, pool, job.Mode, []byte(cfg), job.Seed,
	).Scan(&job.ID, &job.CreatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	job.Status = "queued"
	return nil
}

func scanJob(row interface {
	Scan(dest ...any) error
}) (*model.OptimizationJob, error) {
	var j model.OptimizationJob
	var pool, errMsg sql.NullString
	var cfg []byte
	var startedAt, finishedAt sql.NullTime
	if err := row.Scan(&j.ID, &j.UserID, &j.Name, &j.Ship, &j.Hostile, &pool, &j.Mode, &cfg,
		&j.Seed, &j.Status, &j.Progress, &errMsg, &j.CreatedAt, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	if pool.Valid && pool.String != "" {
		j.OfficerPool = strings.Split(pool.String, ",")
	}
	if len(cfg) > 0 {
		j.Config = json.RawMessage(cfg)
	}
	j.ErrorMessage = errMsg.String
	if startedAt.Valid {
		t := startedAt.Time
		j.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		j.FinishedAt = &t
	}
	return &j, nil
}

const jobColumns = `id, user_id, name, ship, hostile, officer_pool, mode, config, seed, status, progress, error_message, created_at, started_at, finished_at`

// FindByID looks up a job by ID.
func (r *JobRepo) FindByID(ctx context.Context, id string) (*model.OptimizationJob, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM optimization_jobs WHERE id = $1`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	return j, nil
}

// ListByUser returns a user's jobs, most recent first.
func (r *JobRepo) ListByUser(ctx context.Context, userID string) ([]model.OptimizationJob, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM optimization_jobs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	var out []model.OptimizationJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// ListRunning returns every job currently in "queued" or "running" status,
// oldest first.
func (r *JobRepo) ListRunning(ctx context.Context) ([]model.OptimizationJob, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM optimization_jobs WHERE status IN ('queued', 'running') ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list running jobs: %w", err)
	}
	defer rows.Close()
	var out []model.OptimizationJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, *j)
	}
	return out, rows.Err()
}

// UpdateStatus transitions a job's status, stamping started_at/finished_at
// as appropriate and recording errMsg on failure.
func (r *JobRepo) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	var err error
	switch status {
	case "running":
		_, err = r.db.ExecContext(ctx,
			`UPDATE optimization_jobs SET status = $1, started_at = now() WHERE id = $2`, status, id)
	case "completed", "failed", "canceled":
		_, err = r.db.ExecContext(ctx,
			`UPDATE optimization_jobs SET status = $1, error_message = $2, finished_at = now() WHERE id = $3`,
			status, errMsg, id)
	default:
		_, err = r.db.ExecContext(ctx, `UPDATE optimization_jobs SET status = $1 WHERE id = $2`, status, id)
	}
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}

// UpdateProgress persists the last-known fraction-complete for a job.
func (r *JobRepo) UpdateProgress(ctx context.Context, id string, progress float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE optimization_jobs SET progress = $1 WHERE id = $2`, progress, id)
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

// SaveResults replaces a job's ranked result rows.
func (r *JobRepo) SaveResults(ctx context.Context, jobID string, results []model.JobResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM job_results WHERE job_id = $1`, jobID); err != nil {
		return fmt.Errorf("clear old results: %w", err)
	}
	for _, res := range results {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO job_results (job_id, rank, captain, bridge, below_decks, win_rate, avg_hull_remaining, score)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			jobID, res.Rank, res.Captain, res.Bridge, res.BelowDecks, res.WinRate, res.AvgHullRemaining, res.Score,
		)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}
	}
	return tx.Commit()
}

// ResultsByJob returns a job's ranked results in rank order.
func (r *JobRepo) ResultsByJob(ctx context.Context, jobID string) ([]model.JobResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, job_id, rank, captain, bridge, below_decks, win_rate, avg_hull_remaining, score
		 FROM job_results WHERE job_id = $1 ORDER BY rank ASC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()
	var out []model.JobResult
	for rows.Next() {
		var res model.JobResult
		if err := rows.Scan(&res.ID, &res.JobID, &res.Rank, &res.Captain, &res.Bridge, &res.BelowDecks,
			&res.WinRate, &res.AvgHullRemaining, &res.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
