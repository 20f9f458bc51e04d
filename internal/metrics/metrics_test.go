package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue はレジストリから指定カウンタの現在値を取得する。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == name {
			if len(mf.GetMetric()) != 1 {
				t.Fatalf("expected 1 metric for %s, got %d", name, len(mf.GetMetric()))
			}
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}

	t.Fatalf("metric %s not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordBoardSave_IncrementsCounter はボード保存カウンタが増加することを検証する。
func TestRecordBoardSave_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBoardSave(10 * time.Millisecond)
	c.RecordBoardSave(20 * time.Millisecond)

	if val := counterValue(t, reg, "boardman_board_saves_total"); val != 2 {
		t.Errorf("board_saves_total = %v, want 2", val)
	}
}

// TestRecordBoardSaveFailure_IncrementsCounter は保存失敗カウンタが増加することを検証する。
func TestRecordBoardSaveFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordBoardSaveFailure()

	if val := counterValue(t, reg, "boardman_board_save_failures_total"); val != 1 {
		t.Errorf("board_save_failures_total = %v, want 1", val)
	}
}

// TestRecordRows_AddsCounts はアップサート・スキップ件数が加算されることを検証する。
func TestRecordRows_AddsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRowsUpserted(6)
	c.RecordRowsUpserted(3)
	c.RecordRowsSkipped(2)

	if val := counterValue(t, reg, "boardman_rows_upserted_total"); val != 9 {
		t.Errorf("rows_upserted_total = %v, want 9", val)
	}
	if val := counterValue(t, reg, "boardman_rows_skipped_total"); val != 2 {
		t.Errorf("rows_skipped_total = %v, want 2", val)
	}
}

// TestRecordAuthDenied_IncrementsCounter は認可拒否カウンタが増加することを検証する。
func TestRecordAuthDenied_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthDenied()
	c.RecordAuthDenied()
	c.RecordAuthDenied()

	if val := counterValue(t, reg, "boardman_auth_denied_total"); val != 3 {
		t.Errorf("auth_denied_total = %v, want 3", val)
	}
}

// TestRecordHTTPStatus_LabelsByCode はステータスコード別にカウントされることを検証する。
func TestRecordHTTPStatus_LabelsByCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(403)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != "boardman_http_status_total" {
			continue
		}
		if len(mf.GetMetric()) != 2 {
			t.Fatalf("expected 2 labeled metrics, got %d", len(mf.GetMetric()))
		}
		for _, m := range mf.GetMetric() {
			code := m.GetLabel()[0].GetValue()
			val := m.GetCounter().GetValue()
			switch code {
			case "200":
				if val != 2 {
					t.Errorf("status 200 = %v, want 2", val)
				}
			case "403":
				if val != 1 {
					t.Errorf("status 403 = %v, want 1", val)
				}
			default:
				t.Errorf("unexpected status label %q", code)
			}
		}
		return
	}

	t.Error("boardman_http_status_total metric not found")
}

// TestHandler_ServesMetrics は/metricsハンドラーが登録済みメトリクスを出力することを検証する。
func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordBoardSave(5 * time.Millisecond)

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "boardman_board_saves_total") {
		t.Error("scrape output should contain boardman_board_saves_total")
	}
	if !strings.Contains(string(body), "boardman_board_save_latency_seconds") {
		t.Error("scrape output should contain the save latency histogram")
	}
}

// TestCollector_ImplementsInterface はCollectorがMetricsCollectorを実装することを検証する。
func TestCollector_ImplementsInterface(t *testing.T) {
	var _ MetricsCollector = (*Collector)(nil)
}
