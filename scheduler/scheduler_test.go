package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/stretchr/testify/assert"
)

type fakeResetter struct {
	count int
	err   error
	calls int
}

func (f *fakeResetter) ResetAll(ctx context.Context) (int, error) {
	f.calls++
	return f.count, f.err
}

type resetLog struct{ guilds []int }

func (r *resetLog) RecordReset(guilds int) { r.guilds = append(r.guilds, guilds) }

func TestNextRun(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"later today", time.Date(2024, 5, 1, 3, 0, 0, 0, utils.JST), time.Date(2024, 5, 1, 5, 0, 0, 0, utils.JST)},
		{"already passed", time.Date(2024, 5, 1, 6, 0, 0, 0, utils.JST), time.Date(2024, 5, 2, 5, 0, 0, 0, utils.JST)},
		{"exactly now", time.Date(2024, 5, 1, 5, 0, 0, 0, utils.JST), time.Date(2024, 5, 2, 5, 0, 0, 0, utils.JST)},
		{"utc input", time.Date(2024, 4, 30, 19, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 5, 0, 0, 0, utils.JST)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextRun(tt.now, 5, 0)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestRunReset(t *testing.T) {
	resetter := &fakeResetter{count: 3}
	recorder := &resetLog{}
	s := NewScheduler(resetter, recorder)

	s.runReset()
	assert.Equal(t, []int{3}, recorder.guilds)

	resetter.err = errors.New("storage down")
	s.runReset()
	assert.Equal(t, 2, resetter.calls)
	assert.Equal(t, []int{3}, recorder.guilds, "failed reset is not recorded")
}

func TestStartMetricsPush(t *testing.T) {
	s := NewScheduler(&fakeResetter{}, nil)

	var pushed atomic.Int32
	sink := func(ctx context.Context, stats api.CacheMetrics) {
		if stats.TotalCalls == 9 {
			pushed.Add(1)
		}
	}
	s.StartMetricsPush(5*time.Millisecond, func() api.CacheMetrics { return api.CacheMetrics{TotalCalls: 9} }, sink)

	assert.Eventually(t, func() bool { return pushed.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()
}

func TestStopEndsDailyReset(t *testing.T) {
	s := NewScheduler(&fakeResetter{}, nil)
	s.StartDailyReset(5, 0)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
