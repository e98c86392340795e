package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus /metrics 엔드포인트로 노출되는 수집기 모음입니다
type Prometheus struct {
	registry *prometheus.Registry

	commands    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheCalls  *prometheus.GaugeVec
	cacheRate   prometheus.Gauge
	resetGuilds prometheus.Counter
}

// NewPrometheus 전용 레지스트리에 수집기를 등록합니다
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "commands_total",
			Help:      "Handled chat commands.",
		}, []string{"command", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent handling a chat command.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		cacheCalls: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "lounge_cache_calls",
			Help:      "Lounge lookups by cache outcome.",
		}, []string{"outcome"}),
		cacheRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "lounge_cache_hit_rate",
			Help:      "Lounge cache hit rate in percent.",
		}),
		resetGuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: constants.MetricsNamespace,
			Name:      "handsup_reset_guilds_total",
			Help:      "Guild war lists cleared by the scheduled reset.",
		}),
	}

	p.registry.MustRegister(
		p.commands, p.duration, p.cacheCalls, p.cacheRate, p.resetGuilds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// RecordCommand 명령 처리 결과를 기록합니다
func (p *Prometheus) RecordCommand(command string, success bool, elapsed time.Duration) {
	p.commands.WithLabelValues(command, strconv.FormatBool(success)).Inc()
	p.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// RecordReset 일괄 초기화된 서버 수를 더합니다
func (p *Prometheus) RecordReset(guilds int) {
	p.resetGuilds.Add(float64(guilds))
}

// ObserveCache 캐시 통계를 게이지에 반영합니다
func (p *Prometheus) ObserveCache(stats api.CacheMetrics) {
	p.cacheCalls.WithLabelValues("hit").Set(float64(stats.CacheHits))
	p.cacheCalls.WithLabelValues("miss").Set(float64(stats.CacheMisses))
	p.cacheRate.Set(stats.HitRate)
}

// Gatherer 테스트와 내보내기에 쓰는 레지스트리입니다
func (p *Prometheus) Gatherer() prometheus.Gatherer {
	return p.registry
}

// Handler 레지스트리를 노출하는 HTTP 핸들러입니다
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Recorder 명령 처리와 초기화 결과를 받는 메트릭 수신자입니다
type Recorder interface {
	RecordCommand(command string, success bool, elapsed time.Duration)
	RecordReset(guilds int)
}

// Recorders 여러 수신자에게 같은 기록을 전달합니다
type Recorders []Recorder

// RecordCommand 모든 수신자에 기록합니다
func (rs Recorders) RecordCommand(command string, success bool, elapsed time.Duration) {
	for _, r := range rs {
		r.RecordCommand(command, success, elapsed)
	}
}

// RecordReset 모든 수신자에 기록합니다
func (rs Recorders) RecordReset(guilds int) {
	for _, r := range rs {
		r.RecordReset(guilds)
	}
}
