package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnceExecutesAllJobs(t *testing.T) {
	t.Parallel()

	s := NewScheduler(discardLogger())

	var ran atomic.Int32
	s.AddJob("first", 0, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	s.AddJob("second", 0, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), ran.Load())
}

func TestRunOnceContinuesPastFailingJob(t *testing.T) {
	t.Parallel()

	s := NewScheduler(discardLogger())

	var ran atomic.Int32
	s.AddJob("broken", 0, func(ctx context.Context) error {
		return errors.New("boom")
	})
	s.AddJob("healthy", 0, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, int32(1), ran.Load())
}
