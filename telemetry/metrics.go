package telemetry

import (
	"context"
	"fmt"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"google.golang.org/api/option"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// sendTimeout Cloud Monitoring 호출 한 번의 제한 시간입니다
const sendTimeout = 5 * time.Second

// MetricsClient Google Cloud Monitoring 클라이언트를 래핑합니다
type MetricsClient struct {
	client    *monitoring.MetricClient
	send      func(ctx context.Context, req *monitoringpb.CreateTimeSeriesRequest) error
	projectID string
	enabled   bool
}

// NewMetricsClient 새로운 MetricsClient 인스턴스를 생성합니다. 설정이 없거나 연결에 실패하면 비활성 클라이언트를 반환합니다
func NewMetricsClient(ctx context.Context, projectID, credentialsJSON string) *MetricsClient {
	if projectID == "" {
		utils.Warn("Project ID not provided, telemetry disabled")
		return &MetricsClient{enabled: false}
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := monitoring.NewMetricClient(ctx, opts...)
	if err != nil {
		utils.Warn("Failed to create monitoring client: %v", err)
		utils.Warn("Telemetry disabled")
		return &MetricsClient{enabled: false}
	}

	utils.Info("Google Cloud Monitoring telemetry enabled for project: %s", projectID)
	return &MetricsClient{
		client: client,
		send: func(ctx context.Context, req *monitoringpb.CreateTimeSeriesRequest) error {
			return client.CreateTimeSeries(ctx, req)
		},
		projectID: projectID,
		enabled:   true,
	}
}

// Enabled 메트릭 전송이 활성화되어 있는지 확인합니다
func (m *MetricsClient) Enabled() bool {
	return m != nil && m.enabled
}

// SendCacheMetrics Lounge 캐시 메트릭을 Google Cloud Monitoring으로 전송합니다
func (m *MetricsClient) SendCacheMetrics(ctx context.Context, stats api.CacheMetrics) {
	if !m.Enabled() {
		return
	}

	now := timestamppb.New(time.Now())
	values := map[string]float64{
		"lounge/cache/hit_rate":    stats.HitRate,
		"lounge/cache/total_calls": float64(stats.TotalCalls),
		"lounge/cache/hits":        float64(stats.CacheHits),
		"lounge/cache/misses":      float64(stats.CacheMisses),
	}
	for metricType, value := range values {
		if err := m.sendMetric(ctx, metricType, doubleValue(value), now, nil); err != nil {
			utils.Warn("Failed to send %s metric: %v", metricType, err)
		}
	}

	utils.Debug("Cache metrics sent to Google Cloud Monitoring")
}

// RecordCommand 명령어 사용 메트릭을 전송합니다
func (m *MetricsClient) RecordCommand(command string, success bool, elapsed time.Duration) {
	if !m.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	now := timestamppb.New(time.Now())
	labels := map[string]string{
		"command": command,
		"success": fmt.Sprintf("%t", success),
	}
	if err := m.sendMetric(ctx, "commands/usage", int64Value(1), now, labels); err != nil {
		utils.Warn("Failed to send command metric: %v", err)
		return
	}
	if err := m.sendMetric(ctx, "commands/duration", doubleValue(elapsed.Seconds()), now, labels); err != nil {
		utils.Warn("Failed to send command duration metric: %v", err)
		return
	}

	utils.Debug("Command metric sent: %s (success: %t)", command, success)
}

// RecordReset 모집 일괄 초기화 결과를 전송합니다
func (m *MetricsClient) RecordReset(guilds int) {
	if !m.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := m.sendMetric(ctx, "handsup/reset_guilds", int64Value(int64(guilds)), timestamppb.New(time.Now()), nil); err != nil {
		utils.Warn("Failed to send reset metric: %v", err)
	}
}

func doubleValue(v float64) *monitoringpb.TypedValue {
	return &monitoringpb.TypedValue{Value: &monitoringpb.TypedValue_DoubleValue{DoubleValue: v}}
}

func int64Value(v int64) *monitoringpb.TypedValue {
	return &monitoringpb.TypedValue{Value: &monitoringpb.TypedValue_Int64Value{Int64Value: v}}
}

// timeSeriesRequest 라벨이 포함된 커스텀 메트릭 요청을 만듭니다
func (m *MetricsClient) timeSeriesRequest(metricType string, value *monitoringpb.TypedValue, timestamp *timestamppb.Timestamp, labels map[string]string) *monitoringpb.CreateTimeSeriesRequest {
	if labels == nil {
		labels = make(map[string]string)
	}

	return &monitoringpb.CreateTimeSeriesRequest{
		Name: fmt.Sprintf("projects/%s", m.projectID),
		TimeSeries: []*monitoringpb.TimeSeries{
			{
				Metric: &metric.Metric{
					Type:   fmt.Sprintf("custom.googleapis.com/%s/%s", constants.MetricsNamespace, metricType),
					Labels: labels,
				},
				Resource: &monitoredres.MonitoredResource{
					Type: "generic_task",
					Labels: map[string]string{
						"project_id": m.projectID,
						"location":   "global",
						"namespace":  constants.TelemetryNamespace,
						"job":        constants.TelemetryJobName,
						"task_id":    constants.TelemetryTaskID,
					},
				},
				Points: []*monitoringpb.Point{
					{
						Interval: &monitoringpb.TimeInterval{EndTime: timestamp},
						Value:    value,
					},
				},
			},
		},
	}
}

func (m *MetricsClient) sendMetric(ctx context.Context, metricType string, value *monitoringpb.TypedValue, timestamp *timestamppb.Timestamp, labels map[string]string) error {
	return m.send(ctx, m.timeSeriesRequest(metricType, value, timestamp, labels))
}

// Close 클라이언트를 정리합니다
func (m *MetricsClient) Close() error {
	if !m.Enabled() || m.client == nil {
		return nil
	}
	return m.client.Close()
}
