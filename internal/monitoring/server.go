// Package monitoring runs the operator listener: database and host stats,
// threshold alerts and a Prometheus endpoint, kept off the public port.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"farm-backend/pkg/utils"
)

// maxAlerts bounds the in-memory alert history.
const maxAlerts = 100

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PoolStats reports connection pool usage. main adapts *pgxpool.Pool to it.
type PoolStats func() (total, idle, maxConns int32)

type Alert struct {
	ID        int       `json:"id"`
	Severity  string    `json:"severity"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Stats struct {
	DatabaseStatus string  `json:"database_status"`
	ResponseTime   int64   `json:"response_time_ms"`
	PoolTotal      int32   `json:"pool_total_conns"`
	PoolIdle       int32   `json:"pool_idle_conns"`
	PoolMax        int32   `json:"pool_max_conns"`
	CPUPercent     float64 `json:"cpu_percent"`
	MemoryPercent  float64 `json:"memory_percent"`
	DiskPercent    float64 `json:"disk_percent"`
	Uptime         string  `json:"uptime"`
	ActiveAlerts   int     `json:"active_alerts"`
}

type Server struct {
	db      Pinger
	pool    PoolStats
	port    int
	started time.Time
	logger  *zap.Logger

	alertsMux sync.RWMutex
	alerts    []Alert
	nextID    int
}

func NewServer(db Pinger, pool PoolStats, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		db:      db,
		pool:    pool,
		port:    port,
		started: time.Now(),
		logger:  logger,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/stats", s.getStats).Methods("GET")
	r.HandleFunc("/api/alerts", s.getAlerts).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start serves until ctx is cancelled. The health loop runs alongside.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.monitorHealth(ctx, 30*time.Second)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("monitoring listener started", zap.Int("port", s.port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, s.collectStats(r.Context()))
}

func (s *Server) getAlerts(w http.ResponseWriter, r *http.Request) {
	utils.List(w, s.Alerts())
}

// Alerts returns the recorded alerts, newest last.
func (s *Server) Alerts() []Alert {
	s.alertsMux.RLock()
	defer s.alertsMux.RUnlock()
	out := make([]Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *Server) collectStats(ctx context.Context) Stats {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	stats := Stats{DatabaseStatus: "healthy", Uptime: time.Since(s.started).Round(time.Second).String()}

	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		stats.DatabaseStatus = "unhealthy"
	}
	stats.ResponseTime = time.Since(start).Milliseconds()

	if s.pool != nil {
		stats.PoolTotal, stats.PoolIdle, stats.PoolMax = s.pool()
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if m, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = m.UsedPercent
	}
	if d, err := disk.Usage("/"); err == nil {
		stats.DiskPercent = d.UsedPercent
	}

	s.alertsMux.RLock()
	stats.ActiveAlerts = len(s.alerts)
	s.alertsMux.RUnlock()
	return stats
}

// evaluate turns one stats sample into alerts.
func evaluate(stats Stats) []Alert {
	var alerts []Alert
	if stats.DatabaseStatus != "healthy" {
		alerts = append(alerts, Alert{Severity: "critical", Type: "database_down", Message: "Database is unreachable"})
	}
	if stats.ResponseTime > 1000 {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Type:     "high_latency",
			Message:  fmt.Sprintf("Database response time: %dms", stats.ResponseTime),
		})
	}
	if stats.PoolMax > 0 && stats.PoolIdle == 0 && stats.PoolTotal >= stats.PoolMax {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Type:     "pool_exhausted",
			Message:  fmt.Sprintf("All %d database connections in use", stats.PoolMax),
		})
	}
	if stats.DiskPercent > 90 {
		alerts = append(alerts, Alert{
			Severity: "warning",
			Type:     "disk_full",
			Message:  fmt.Sprintf("Disk usage at %.1f%%", stats.DiskPercent),
		})
	}
	return alerts
}

func (s *Server) record(alerts []Alert) {
	if len(alerts) == 0 {
		return
	}
	s.alertsMux.Lock()
	defer s.alertsMux.Unlock()
	for _, a := range alerts {
		s.nextID++
		a.ID = s.nextID
		if a.Timestamp.IsZero() {
			a.Timestamp = time.Now()
		}
		s.alerts = append(s.alerts, a)
		s.logger.Warn("monitoring alert",
			zap.String("type", a.Type),
			zap.String("severity", a.Severity),
			zap.String("message", a.Message))
	}
	if len(s.alerts) > maxAlerts {
		s.alerts = s.alerts[len(s.alerts)-maxAlerts:]
	}
}

func (s *Server) monitorHealth(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.record(evaluate(s.collectStats(ctx)))
		}
	}
}
