package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthStatus 헬스체크 응답 구조체
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Memory    string            `json:"memory_usage"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// CheckFunc 의존 서비스 하나의 상태를 확인합니다
type CheckFunc func(ctx context.Context) error

// Server 헬스체크와 메트릭을 제공하는 HTTP 서버입니다
type Server struct {
	started time.Time
	metrics http.Handler

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewServer 새 헬스체크 서버를 만듭니다. metrics가 nil이면 /metrics를 노출하지 않습니다
func NewServer(metrics http.Handler) *Server {
	return &Server{
		started: time.Now(),
		metrics: metrics,
		checks:  make(map[string]CheckFunc),
	}
}

// Register 상태 확인 항목을 등록합니다
func (s *Server) Register(name string, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Router chi 라우터를 구성합니다
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Get("/", s.healthHandler) // Railway의 기본 헬스체크
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Start 헬스체크 HTTP 서버를 백그라운드에서 시작합니다
func (s *Server) Start(port string) *http.Server {
	if port == "" {
		port = constants.DefaultHTTPPort
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.Info("Health check server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Error("Health server error: %v", err)
		}
	}()
	return srv
}

// healthHandler 헬스체크 핸들러
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	status := HealthStatus{
		Status:    constants.HealthStatusHealthy,
		Timestamp: time.Now(),
		Uptime:    time.Since(s.started).String(),
		Version:   constants.BotVersion,
		GoVersion: runtime.Version(),
		Memory:    fmt.Sprintf("%.2f MB", float64(memStats.Alloc)/constants.BytesToMB),
		Checks:    s.runChecks(r.Context()),
	}

	code := http.StatusOK
	for _, result := range status.Checks {
		if result != constants.HealthStatusHealthy {
			status.Status = constants.HealthStatusUnhealthy
			code = http.StatusServiceUnavailable
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		utils.Warn("Failed to encode health status: %v", err)
	}
}

func (s *Server) runChecks(ctx context.Context) map[string]string {
	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	s.mu.RUnlock()
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)

	ctx, cancel := context.WithTimeout(ctx, constants.StorageHealthCheckTimeout)
	defer cancel()

	results := make(map[string]string, len(names))
	for _, name := range names {
		s.mu.RLock()
		check := s.checks[name]
		s.mu.RUnlock()

		if err := check(ctx); err != nil {
			utils.Warn("Health check %s failed: %v", name, err)
			results[name] = constants.HealthStatusUnhealthy + ": " + err.Error()
			continue
		}
		results[name] = constants.HealthStatusHealthy
	}
	return results
}
