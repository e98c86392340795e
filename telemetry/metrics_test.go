package telemetry

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecordingClient(fail error) (*MetricsClient, *[]*monitoringpb.CreateTimeSeriesRequest) {
	var sent []*monitoringpb.CreateTimeSeriesRequest
	client := &MetricsClient{
		projectID: "proj",
		enabled:   true,
		send: func(ctx context.Context, req *monitoringpb.CreateTimeSeriesRequest) error {
			sent = append(sent, req)
			return fail
		},
	}
	return client, &sent
}

func TestMetricsClient_DisabledIsNoop(t *testing.T) {
	client := NewMetricsClient(context.Background(), "", "")
	assert.False(t, client.Enabled())

	client.RecordCommand("ping", true, time.Millisecond)
	client.RecordReset(3)
	client.SendCacheMetrics(context.Background(), api.CacheMetrics{})
	assert.NoError(t, client.Close())

	var nilClient *MetricsClient
	assert.False(t, nilClient.Enabled())
}

func TestMetricsClient_RecordCommand(t *testing.T) {
	client, sent := newRecordingClient(nil)

	client.RecordCommand("race", false, 250*time.Millisecond)

	require.Len(t, *sent, 2)
	req := (*sent)[0]
	assert.Equal(t, "projects/proj", req.Name)
	series := req.TimeSeries[0]
	assert.Equal(t, "custom.googleapis.com/mkbot/commands/usage", series.Metric.Type)
	assert.Equal(t, map[string]string{"command": "race", "success": "false"}, series.Metric.Labels)
	assert.Equal(t, "generic_task", series.Resource.Type)
	assert.Equal(t, int64(1), series.Points[0].Value.GetInt64Value())

	duration := (*sent)[1].TimeSeries[0]
	assert.InDelta(t, 0.25, duration.Points[0].Value.GetDoubleValue(), 1e-9)
}

func TestMetricsClient_StopsAfterFailure(t *testing.T) {
	client, sent := newRecordingClient(errors.New("unavailable"))

	client.RecordCommand("race", true, time.Second)
	assert.Len(t, *sent, 1)
}

func TestMetricsClient_SendCacheMetrics(t *testing.T) {
	client, sent := newRecordingClient(nil)

	client.SendCacheMetrics(context.Background(), api.CacheMetrics{TotalCalls: 4, CacheHits: 3, CacheMisses: 1, HitRate: 75})

	require.Len(t, *sent, 4)
	types := map[string]float64{}
	for _, req := range *sent {
		series := req.TimeSeries[0]
		types[series.Metric.Type] = series.Points[0].Value.GetDoubleValue()
	}
	assert.Equal(t, 75.0, types["custom.googleapis.com/mkbot/lounge/cache/hit_rate"])
	assert.Equal(t, 4.0, types["custom.googleapis.com/mkbot/lounge/cache/total_calls"])
}

func TestPrometheus_RecordsAndServes(t *testing.T) {
	p := NewPrometheus()

	p.RecordCommand("start", true, 10*time.Millisecond)
	p.RecordCommand("start", true, 20*time.Millisecond)
	p.RecordCommand("start", false, 5*time.Millisecond)
	p.RecordReset(2)
	p.ObserveCache(api.CacheMetrics{CacheHits: 7, CacheMisses: 3, HitRate: 70})

	assert.Equal(t, 2.0, testutil.ToFloat64(p.commands.WithLabelValues("start", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.commands.WithLabelValues("start", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.resetGuilds))
	assert.Equal(t, 70.0, testutil.ToFloat64(p.cacheRate))

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `mkbot_commands_total{command="start",success="true"} 2`), body)
	assert.Contains(t, body, "go_goroutines")
}

type countingRecorder struct {
	commands int
	resets   int
}

func (c *countingRecorder) RecordCommand(string, bool, time.Duration) { c.commands++ }
func (c *countingRecorder) RecordReset(int)                          { c.resets++ }

func TestRecorders_FanOut(t *testing.T) {
	a, b := &countingRecorder{}, &countingRecorder{}
	rs := Recorders{a, b}

	rs.RecordCommand("x", true, 0)
	rs.RecordReset(1)

	assert.Equal(t, 1, a.commands)
	assert.Equal(t, 1, b.resets)
}
