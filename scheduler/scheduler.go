package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/utils"
)

// Resetter 모든 서버의 모집 현황을 초기화합니다
type Resetter interface {
	ResetAll(ctx context.Context) (int, error)
}

// ResetRecorder 초기화된 서버 수를 기록합니다
type ResetRecorder interface {
	RecordReset(guilds int)
}

// CacheSink 캐시 통계를 받아 내보냅니다
type CacheSink func(ctx context.Context, stats api.CacheMetrics)

type Scheduler struct {
	resetter Resetter
	recorder ResetRecorder

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(resetter Resetter, recorder ResetRecorder) *Scheduler {
	return &Scheduler{
		resetter: resetter,
		recorder: recorder,
		stopChan: make(chan struct{}),
	}
}

// NextRun now 이후 처음 오는 JST hour:minute 시각을 반환합니다
func NextRun(now time.Time, hour, minute int) time.Time {
	local := now.In(utils.JST)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, utils.JST)
	if !next.After(local) {
		next = next.Add(constants.SchedulerInterval)
	}
	return next
}

// StartDailyReset 매일 JST hour:minute에 모집 현황을 초기화합니다
func (s *Scheduler) StartDailyReset(hour, minute int) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			wait := time.Until(NextRun(time.Now(), hour, minute))
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
				s.runReset()
			case <-s.stopChan:
				timer.Stop()
				return
			}
		}
	}()

	utils.Info("War list reset scheduled daily at %02d:%02d JST", hour, minute)
}

func (s *Scheduler) runReset() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	count, err := s.resetter.ResetAll(ctx)
	if err != nil {
		utils.Error("Failed to reset war lists: %v", err)
		return
	}
	if s.recorder != nil {
		s.recorder.RecordReset(count)
	}
	utils.Info("Reset war lists of %d guilds in %s", count, utils.Elapsed(start))
}

// StartMetricsPush 주기적으로 캐시 통계를 sink들에 전달합니다
func (s *Scheduler) StartMetricsPush(interval time.Duration, stats func() api.CacheMetrics, sinks ...CacheSink) {
	if interval <= 0 {
		interval = constants.MetricsPushInterval
	}
	ticker := time.NewTicker(interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.pushMetrics(stats(), sinks)
			case <-s.stopChan:
				return
			}
		}
	}()

	utils.Info("Cache metrics push started (every %s)", interval)
}

func (s *Scheduler) pushMetrics(stats api.CacheMetrics, sinks []CacheSink) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, sink := range sinks {
		sink(ctx, stats)
	}
	utils.Debug("%s", stats.String())
}

// Stop 모든 작업을 멈추고 끝날 때까지 기다립니다
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	utils.Info("Scheduler stopped")
}
