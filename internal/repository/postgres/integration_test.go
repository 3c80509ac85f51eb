//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/pggpgg/stfc-optimizer/internal/model"
	"github.com/pggpgg/stfc-optimizer/internal/testutil"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	m.Run()
}

func setup(t *testing.T) {
	t.Helper()
	if testDB == nil {
		testDB = testutil.SetupDB(t)
	}
	testutil.CleanupDB(t, testDB)
}

func createTestUser(t *testing.T, repo *UserRepo, suffix string) *model.User {
	t.Helper()
	u, err := repo.Upsert(context.Background(), "google", "provider-"+suffix, "User "+suffix, "https://avatar/"+suffix)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

func TestUserUpsertCreates(t *testing.T) {
	setup(t)
	repo := NewUserRepo(testDB)

	u, err := repo.Upsert(context.Background(), "google", "goog-123", "Alice", "https://avatar/alice")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if u.DisplayName != "Alice" {
		t.Fatalf("expected display name Alice, got %s", u.DisplayName)
	}
}

func TestJobCreateAndFind(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	jobRepo := NewJobRepo(testDB)
	u := createTestUser(t, userRepo, "job-owner")

	job := &model.OptimizationJob{
		UserID:      u.ID,
		Name:        "hull-tank sweep",
		Ship:        "uss-enterprise",
		Hostile:     "borg-probe-10",
		OfficerPool: []string{"khan", "spock", "kirk"},
		Mode:        "montecarlo",
		Seed:        42,
	}
	if err := jobRepo.Create(context.Background(), job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	if job.ID == "" {
		t.Fatal("expected non-empty job ID")
	}

	found, err := jobRepo.FindByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("find job: %v", err)
	}
	if found == nil || found.Status != "queued" {
		t.Fatalf("expected queued job, got %+v", found)
	}
	if len(found.OfficerPool) != 3 {
		t.Fatalf("expected 3-officer pool round-trip, got %v", found.OfficerPool)
	}
}

func TestJobStatusTransitionsAndResults(t *testing.T) {
	setup(t)
	userRepo := NewUserRepo(testDB)
	jobRepo := NewJobRepo(testDB)
	u := createTestUser(t, userRepo, "job-results")

	job := &model.OptimizationJob{UserID: u.ID, Ship: "s", Hostile: "h", Mode: "genetic"}
	if err := jobRepo.Create(context.Background(), job); err != nil {
		t.Fatalf("create job: %v", err)
	}

	if err := jobRepo.UpdateStatus(context.Background(), job.ID, "running", ""); err != nil {
		t.Fatalf("update status running: %v", err)
	}
	if err := jobRepo.UpdateProgress(context.Background(), job.ID, 0.5); err != nil {
		t.Fatalf("update progress: %v", err)
	}

	results := []model.JobResult{
		{Rank: 1, Captain: "khan", Bridge: "spock,sulu", BelowDecks: "uhura,scotty,chekov", WinRate: 0.91, AvgHullRemaining: 0.6, Score: 0.85},
	}
	if err := jobRepo.SaveResults(context.Background(), job.ID, results); err != nil {
		t.Fatalf("save results: %v", err)
	}
	if err := jobRepo.UpdateStatus(context.Background(), job.ID, "completed", ""); err != nil {
		t.Fatalf("update status completed: %v", err)
	}

	found, err := jobRepo.FindByID(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("find job: %v", err)
	}
	if found.Status != "completed" || found.FinishedAt == nil {
		t.Fatalf("expected completed job with finished_at set, got %+v", found)
	}

	got, err := jobRepo.ResultsByJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("results by job: %v", err)
	}
	if len(got) != 1 || got[0].Captain != "khan" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestCatalogUpsertAndList(t *testing.T) {
	setup(t)
	repo := NewCatalogRepo(testDB)

	payload, _ := json.Marshal(map[string]any{"ship_class": "battleship", "attack": 1000})
	ship := model.CatalogShip{ID: "uss-test", Name: "USS Test", Payload: payload}
	if err := repo.UpsertShip(context.Background(), ship); err != nil {
		t.Fatalf("upsert ship: %v", err)
	}

	ships, err := repo.ListShips(context.Background())
	if err != nil {
		t.Fatalf("list ships: %v", err)
	}
	found := false
	for _, s := range ships {
		if s.ID == "uss-test" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected uss-test in ship catalog")
	}
}
