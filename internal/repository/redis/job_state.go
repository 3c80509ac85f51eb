package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis job state.
const jobQueueKey = "jobs:queue"

func progressKey(jobID string) string { return "job:" + jobID + ":progress" }
func statusKey(jobID string) string   { return "job:" + jobID + ":status" }

// Enqueue pushes a job id onto the pending-work queue.
func (c *Client) Enqueue(ctx context.Context, jobID string) error {
	return c.rdb.LPush(ctx, jobQueueKey, jobID).Err()
}

// Dequeue pops the oldest queued job id, blocking until a job arrives or
// ctx ends; when ctx ends first it returns the wrapped context error.
func (c *Client) Dequeue(ctx context.Context) (string, error) {
	res, err := c.rdb.BRPop(ctx, 0, jobQueueKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("dequeue job: %w", err)
	}
	if len(res) < 2 {
		return "", nil
	}
	return res[1], nil
}

// SetProgress stores the fraction-complete [0,1] for a running job.
func (c *Client) SetProgress(ctx context.Context, jobID string, progress float64) error {
	return c.rdb.Set(ctx, progressKey(jobID), strconv.FormatFloat(progress, 'f', -1, 64), 0).Err()
}

// GetProgress retrieves the fraction-complete for a job, 0 if unset.
func (c *Client) GetProgress(ctx context.Context, jobID string) (float64, error) {
	s, err := c.rdb.Get(ctx, progressKey(jobID)).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get progress: %w", err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse progress: %w", err)
	}
	return v, nil
}

// SetStatus caches a job's status for fast HTTP polling.
func (c *Client) SetStatus(ctx context.Context, jobID, status string) error {
	return c.rdb.Set(ctx, statusKey(jobID), status, 0).Err()
}

// GetStatus retrieves a job's cached status, empty string if unset.
func (c *Client) GetStatus(ctx context.Context, jobID string) (string, error) {
	s, err := c.rdb.Get(ctx, statusKey(jobID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get status: %w", err)
	}
	return s, nil
}

// ClearJob removes a job's cached progress and status, called once results
// have been persisted to Postgres.
func (c *Client) ClearJob(ctx context.Context, jobID string) error {
	return c.rdb.Del(ctx, progressKey(jobID), statusKey(jobID)).Err()
}
