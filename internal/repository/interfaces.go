package repository

import (
	"context"

	"github.com/pggpgg/stfc-optimizer/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// JobRepository defines optimization job and result persistence.
type JobRepository interface {
	Create(ctx context.Context, job *model.OptimizationJob) error
	FindByID(ctx context.Context, id string) (*model.OptimizationJob, error)
	ListByUser(ctx context.Context, userID string) ([]model.OptimizationJob, error)
	UpdateStatus(ctx context.Context, id, status, errMsg string) error
	UpdateProgress(ctx context.Context, id string, progress float64) error
	SaveResults(ctx context.Context, jobID string, results []model.JobResult) error
	ResultsByJob(ctx context.Context, jobID string) ([]model.JobResult, error)
	ListRunning(ctx context.Context) ([]model.OptimizationJob, error)
}

// CatalogRepository defines read/write access to the ship, hostile, and
// officer catalogs backing pkg/stfcdata's in-memory registry.
type CatalogRepository interface {
	ListShips(ctx context.Context) ([]model.CatalogShip, error)
	ListHostiles(ctx context.Context) ([]model.CatalogHostile, error)
	ListOfficers(ctx context.Context) ([]model.CatalogOfficer, error)
	UpsertShip(ctx context.Context, ship model.CatalogShip) error
	UpsertHostile(ctx context.Context, hostile model.CatalogHostile) error
	UpsertOfficer(ctx context.Context, officer model.CatalogOfficer) error
}

// JobCache defines live job-progress operations (Redis): a work queue for
// pending jobs and a fast progress store the HTTP/WS layers poll without
// hitting Postgres on every tick.
type JobCache interface {
	Enqueue(ctx context.Context, jobID string) error
	Dequeue(ctx context.Context) (string, error)
	SetProgress(ctx context.Context, jobID string, progress float64) error
	GetProgress(ctx context.Context, jobID string) (float64, error)
	SetStatus(ctx context.Context, jobID, status string) error
	GetStatus(ctx context.Context, jobID string) (string, error)
	ClearJob(ctx context.Context, jobID string) error
}
