package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/runlog"
)

type fakeRunner struct {
	rec  runlog.Record
	runs int
}

func (f *fakeRunner) Run(ctx context.Context) *runlog.Record {
	f.runs++
	rec := f.rec
	return &rec
}

func TestRunCycleHealthy(t *testing.T) {
	runner := &fakeRunner{rec: runlog.Record{
		RunID: "run-1",
		Stages: runlog.Stages{
			Scraping:   &runlog.StageSummary{Success: true, Count: 4},
			Publishing: &runlog.PublishingStage{Success: true, DryRun: true, Total: 2},
		},
	}}
	s := New(Config{Cfg: &config.Config{}, Pipeline: runner})

	s.runCycle(context.Background())

	assert.Equal(t, 1, runner.runs)
	assert.True(t, s.Health().IsOverallHealthy())
	assert.WithinDuration(t, time.Now(), s.LastRun(), time.Second)
}

func TestRunCycleNoArticles(t *testing.T) {
	runner := &fakeRunner{rec: runlog.Record{
		RunID:  "run-2",
		Stages: runlog.Stages{Scraping: &runlog.StageSummary{Success: true, Count: 0}},
	}}
	s := New(Config{Cfg: &config.Config{}, Pipeline: runner})

	s.runCycle(context.Background())

	status := s.Health().GetStatus("feeds")
	require.NotNil(t, status)
	assert.False(t, status.Healthy)
}

func TestRunCyclePublishingError(t *testing.T) {
	runner := &fakeRunner{rec: runlog.Record{
		RunID: "run-3",
		Stages: runlog.Stages{
			Scraping:   &runlog.StageSummary{Success: true, Count: 3},
			Publishing: &runlog.PublishingStage{Error: "Missing twitter credentials", DryRun: true},
		},
	}}
	s := New(Config{Cfg: &config.Config{}, Pipeline: runner})

	s.runCycle(context.Background())

	status := s.Health().GetStatus("publishing")
	require.NotNil(t, status)
	assert.False(t, status.Healthy)
	assert.Equal(t, "Missing twitter credentials", status.Message)
}

func TestRunStopsOnCancel(t *testing.T) {
	runner := &fakeRunner{rec: runlog.Record{RunID: "run-4"}}
	s := New(Config{
		Cfg:      &config.Config{DryRun: true, RunInterval: time.Hour},
		Pipeline: runner,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Give the initial cycle a moment, then shut down.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}

	assert.Equal(t, 1, runner.runs, "only the initial run before the first tick")
}

func TestHealth_SetHealthy(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("feeds", "all good")

	status := h.GetStatus("feeds")
	assert.True(t, status.Healthy)
	assert.Equal(t, "all good", status.Message)
	assert.Nil(t, status.LastError)
	assert.WithinDuration(t, time.Now(), status.LastCheck, time.Second)
	assert.WithinDuration(t, time.Now(), status.LastSuccess, time.Second)
}

func TestHealth_SetUnhealthy(t *testing.T) {
	h := NewHealth()

	err := assert.AnError
	h.SetUnhealthy("feeds", err)

	status := h.GetStatus("feeds")
	assert.False(t, status.Healthy)
	assert.Equal(t, err, status.LastError)
	assert.Equal(t, err.Error(), status.Message)
	assert.WithinDuration(t, time.Now(), status.LastCheck, time.Second)
}

func TestHealth_GetStatus_NotFound(t *testing.T) {
	h := NewHealth()

	status := h.GetStatus("nonexistent")
	assert.Nil(t, status)
}

func TestHealth_GetAllStatuses(t *testing.T) {
	h := NewHealth()

	h.SetHealthy("feeds", "ok")
	h.SetHealthy("publishing", "ok")
	h.SetUnhealthy("pipeline", assert.AnError)

	statuses := h.GetAllStatuses()
	assert.Len(t, statuses, 3)
	assert.True(t, statuses["feeds"].Healthy)
	assert.True(t, statuses["publishing"].Healthy)
	assert.False(t, statuses["pipeline"].Healthy)
}

func TestHealth_IsOverallHealthy(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("feeds", "ok")
		h.SetHealthy("publishing", "ok")

		assert.True(t, h.IsOverallHealthy())
	})

	t.Run("one unhealthy", func(t *testing.T) {
		h := NewHealth()
		h.SetHealthy("feeds", "ok")
		h.SetUnhealthy("publishing", assert.AnError)

		assert.False(t, h.IsOverallHealthy())
	})

	t.Run("empty", func(t *testing.T) {
		h := NewHealth()
		assert.True(t, h.IsOverallHealthy())
	})
}
