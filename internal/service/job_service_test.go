package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pggpgg/stfc-optimizer/internal/model"
	"github.com/pggpgg/stfc-optimizer/pkg/stfcdata"
)

type fakeJobRepo struct {
	jobs    map[string]*model.OptimizationJob
	results map[string][]model.JobResult
	nextID  int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*model.OptimizationJob{}, results: map[string][]model.JobResult{}}
}

func (f *fakeJobRepo) Create(ctx context.Context, job *model.OptimizationJob) error {
	f.nextID++
	job.ID = "job-" + string(rune('0'+f.nextID))
	job.Status = "queued"
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) FindByID(ctx context.Context, id string) (*model.OptimizationJob, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) ListByUser(ctx context.Context, userID string) ([]model.OptimizationJob, error) {
	var out []model.OptimizationJob
	for _, j := range f.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	j, ok := f.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	j.Status = status
	j.ErrorMessage = errMsg
	return nil
}

func (f *fakeJobRepo) UpdateProgress(ctx context.Context, id string, progress float64) error {
	j, ok := f.jobs[id]
	if !ok {
		return errors.New("not found")
	}
	j.Progress = progress
	return nil
}

func (f *fakeJobRepo) SaveResults(ctx context.Context, jobID string, results []model.JobResult) error {
	f.results[jobID] = results
	return nil
}

func (f *fakeJobRepo) ResultsByJob(ctx context.Context, jobID string) ([]model.JobResult, error) {
	return f.results[jobID], nil
}

func (f *fakeJobRepo) ListRunning(ctx context.Context) ([]model.OptimizationJob, error) {
	var out []model.OptimizationJob
	for _, j := range f.jobs {
		if j.Status == "queued" || j.Status == "running" {
			out = append(out, *j)
		}
	}
	return out, nil
}

type fakeJobCache struct {
	queue    []string
	progress map[string]float64
	status   map[string]string
}

func newFakeJobCache() *fakeJobCache {
	return &fakeJobCache{progress: map[string]float64{}, status: map[string]string{}}
}

func (f *fakeJobCache) Enqueue(ctx context.Context, jobID string) error {
	f.queue = append(f.queue, jobID)
	return nil
}

func (f *fakeJobCache) Dequeue(ctx context.Context) (string, error) {
	if len(f.queue) == 0 {
		return "", nil
	}
	id := f.queue[0]
	f.queue = f.queue[1:]
	return id, nil
}

func (f *fakeJobCache) SetProgress(ctx context.Context, jobID string, progress float64) error {
	f.progress[jobID] = progress
	return nil
}

func (f *fakeJobCache) GetProgress(ctx context.Context, jobID string) (float64, error) {
	return f.progress[jobID], nil
}

func (f *fakeJobCache) SetStatus(ctx context.Context, jobID, status string) error {
	f.status[jobID] = status
	return nil
}

func (f *fakeJobCache) GetStatus(ctx context.Context, jobID string) (string, error) {
	return f.status[jobID], nil
}

func (f *fakeJobCache) ClearJob(ctx context.Context, jobID string) error {
	delete(f.progress, jobID)
	delete(f.status, jobID)
	return nil
}

func emptyTestRegistry() *stfcdata.Registry {
	return &stfcdata.Registry{Officers: stfcdata.NewOfficerIndex(nil)}
}

func TestSubmitJobRejectsInvalidMode(t *testing.T) {
	svc := NewJobService(newFakeJobRepo(), newFakeJobCache(), emptyTestRegistry(), nil)
	_, err := svc.SubmitJob(context.Background(), "user-1", model.OptimizationJob{Mode: "brute-force"})
	if !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestSubmitJobRejectsShortPool(t *testing.T) {
	svc := NewJobService(newFakeJobRepo(), newFakeJobCache(), emptyTestRegistry(), nil)
	_, err := svc.SubmitJob(context.Background(), "user-1", model.OptimizationJob{Mode: "montecarlo", OfficerPool: []string{"a", "b"}})
	if !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestSubmitJobEnqueuesAndSetsQueuedStatus(t *testing.T) {
	cache := newFakeJobCache()
	svc := NewJobService(newFakeJobRepo(), cache, emptyTestRegistry(), nil)
	job, err := svc.SubmitJob(context.Background(), "user-1", model.OptimizationJob{Mode: "genetic"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Status != "queued" {
		t.Fatalf("expected queued status, got %s", job.Status)
	}
	if len(cache.queue) != 1 || cache.queue[0] != job.ID {
		t.Fatalf("expected job enqueued, got queue %v", cache.queue)
	}
}

func TestGetJobEnforcesOwnership(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo, newFakeJobCache(), emptyTestRegistry(), nil)
	job, err := svc.SubmitJob(context.Background(), "owner", model.OptimizationJob{Mode: "montecarlo"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.GetJob(context.Background(), job.ID, "someone-else"); !errors.Is(err, ErrNotJobOwner) {
		t.Fatalf("expected ErrNotJobOwner, got %v", err)
	}
	if _, err := svc.GetJob(context.Background(), job.ID, "owner"); err != nil {
		t.Fatalf("owner should be able to fetch job: %v", err)
	}
}

func TestRunJobFailsGracefullyOnUnknownMode(t *testing.T) {
	repo := newFakeJobRepo()
	svc := NewJobService(repo, newFakeJobCache(), emptyTestRegistry(), nil)

	// Bypass SubmitJob's mode validation to exercise RunJob's own failure path.
	job := &model.OptimizationJob{Mode: "not-a-real-mode"}
	if err := repo.Create(context.Background(), job); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := svc.RunJob(context.Background(), job.ID)
	if err == nil {
		t.Fatal("expected RunJob to fail for an unrecognized mode")
	}

	found, _ := repo.FindByID(context.Background(), job.ID)
	if found.Status != "failed" {
		t.Fatalf("expected job marked failed, got %s", found.Status)
	}
}

func TestRunJobReturnsErrJobNotFound(t *testing.T) {
	svc := NewJobService(newFakeJobRepo(), newFakeJobCache(), emptyTestRegistry(), nil)
	if err := svc.RunJob(context.Background(), "does-not-exist"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
