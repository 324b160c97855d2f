package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  []string
	}{
		{"healthy", Stats{DatabaseStatus: "healthy", PoolMax: 10, PoolTotal: 3, PoolIdle: 2}, nil},
		{"database down", Stats{DatabaseStatus: "unhealthy"}, []string{"database_down"}},
		{"slow", Stats{DatabaseStatus: "healthy", ResponseTime: 1500}, []string{"high_latency"}},
		{"pool exhausted", Stats{DatabaseStatus: "healthy", PoolMax: 4, PoolTotal: 4}, []string{"pool_exhausted"}},
		{"disk", Stats{DatabaseStatus: "healthy", DiskPercent: 95}, []string{"disk_full"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(tt.stats)
			if len(got) != len(tt.want) {
				t.Fatalf("alerts = %+v, want types %v", got, tt.want)
			}
			for i, a := range got {
				if a.Type != tt.want[i] {
					t.Errorf("alert %d type = %s, want %s", i, a.Type, tt.want[i])
				}
			}
		})
	}
}

func TestRecordBoundsHistory(t *testing.T) {
	s := NewServer(fakeDB{}, nil, 0, nil)
	for i := 0; i < maxAlerts+5; i++ {
		s.record([]Alert{{Type: "database_down"}})
	}

	alerts := s.Alerts()
	if len(alerts) != maxAlerts {
		t.Fatalf("len = %d, want %d", len(alerts), maxAlerts)
	}
	if alerts[0].ID != 6 || alerts[len(alerts)-1].ID != maxAlerts+5 {
		t.Errorf("ids = %d..%d", alerts[0].ID, alerts[len(alerts)-1].ID)
	}
}

func TestStatsEndpoint(t *testing.T) {
	pool := func() (int32, int32, int32) { return 5, 1, 10 }
	s := NewServer(fakeDB{err: errors.New("refused")}, pool, 0, nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var stats Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.DatabaseStatus != "unhealthy" || stats.PoolTotal != 5 || stats.PoolMax != 10 {
		t.Errorf("stats = %+v", stats)
	}
}
