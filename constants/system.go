package constants

import "time"

// 시스템 관련 상수
const (
	// 애플리케이션 버전
	BotVersion       = "1.0.0"
	BotStatusMessage = "!help | 6v6 war"

	// 네트워크 관련
	DefaultHTTPPort = "8080" // 기본 HTTP 포트 (헬스체크용)

	// 메모리 관련
	BytesToMB = 1024 * 1024

	// 헬스체크 관련
	StorageHealthCheckTimeout = 5 * time.Second
	HealthStatusHealthy       = "healthy"
	HealthStatusUnhealthy     = "unhealthy"

	// 테스트 관련
	TestAPITimeout = 10 * time.Second
)

// 캐시 및 재시도 관련 상수
const (
	PlayerCacheTTL        = 5 * time.Minute  // 플레이어 정보 캐시 만료 시간
	PlayerDetailsCacheTTL = 10 * time.Minute // 플레이어 상세 정보 캐시 만료 시간
	CacheCleanupInterval  = 5 * time.Minute
	CacheCleanupBatchSize = 100

	// Discord API 재시도 설정 (메시지 전송에만 사용)
	MaxDiscordRetries = 3
	BaseRetryDelay    = 1 * time.Second

	// 역할 부여 워커 수
	RoleWorkerCount = 4
)

// 스케줄러 관련 상수
const (
	SchedulerInterval   = 24 * time.Hour
	MetricsPushInterval = 10 * time.Minute
	DefaultResetHour    = 5
	DefaultResetMinute  = 0
)

// 텔레메트리 관련 상수
const (
	TelemetryNamespace = "mario-kart-bot"
	TelemetryJobName   = "war-bot"
	TelemetryTaskID    = "main"
	MetricsNamespace   = "mkbot"
)

// 환경 변수 키
const (
	EnvDiscordToken = "DISCORD_BOT_TOKEN"
	EnvLogLevel     = "LOG_LEVEL"
	EnvJSONLogging  = "LOG_JSON"
	EnvPort         = "PORT"
)
