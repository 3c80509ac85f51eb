//go:build integration

package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pggpgg/stfc-optimizer/internal/testutil"
)

var testRDB *goredis.Client

func setup(t *testing.T) *Client {
	t.Helper()
	if testRDB == nil {
		testRDB = testutil.SetupRedis(t)
	}
	testutil.CleanupRedis(t, testRDB)
	return &Client{rdb: testRDB}
}

func TestJobQueueRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	if err := c.Enqueue(ctx, "job-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := c.Enqueue(ctx, "job-2"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	first, err := c.Dequeue(ctx)
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if first != "job-1" {
		t.Fatalf("expected FIFO order, got %q first", first)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	if err := c.SetProgress(ctx, "job-1", 0.42); err != nil {
		t.Fatalf("set progress: %v", err)
	}
	got, err := c.GetProgress(ctx, "job-1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if got != 0.42 {
		t.Fatalf("expected 0.42, got %v", got)
	}
}

func TestStatusRoundTripAndClear(t *testing.T) {
	c := setup(t)
	ctx := context.Background()

	if err := c.SetStatus(ctx, "job-1", "running"); err != nil {
		t.Fatalf("set status: %v", err)
	}
	got, err := c.GetStatus(ctx, "job-1")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if got != "running" {
		t.Fatalf("expected running, got %q", got)
	}

	if err := c.ClearJob(ctx, "job-1"); err != nil {
		t.Fatalf("clear job: %v", err)
	}
	got, err = c.GetStatus(ctx, "job-1")
	if err != nil {
		t.Fatalf("get status after clear: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty status after clear, got %q", got)
	}
}
