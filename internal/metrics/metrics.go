// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordBoardSave(duration time.Duration)
	RecordBoardSaveFailure()
	RecordRowsUpserted(count int)
	RecordRowsSkipped(count int)
	RecordAuthDenied()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	boardSaves   prometheus.Counter
	saveFailures prometheus.Counter
	rowsUpserted prometheus.Counter
	rowsSkipped  prometheus.Counter
	authDenied   prometheus.Counter
	httpStatus   *prometheus.CounterVec
	saveLatency  prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		boardSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_board_saves_total",
			Help: "ボード保存成功の合計数",
		}),
		saveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_board_save_failures_total",
			Help: "ボード保存失敗の合計数",
		}),
		rowsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_rows_upserted_total",
			Help: "保存でアップサートされた子エンティティの合計数",
		}),
		rowsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_rows_skipped_total",
			Help: "必須フィールド欠落によりスキップされた子エンティティの合計数",
		}),
		authDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardman_auth_denied_total",
			Help: "認証・認可の拒否の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		saveLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "boardman_board_save_latency_seconds",
			Help:    "ボード部分木保存のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.boardSaves,
		c.saveFailures,
		c.rowsUpserted,
		c.rowsSkipped,
		c.authDenied,
		c.httpStatus,
		c.saveLatency,
	)

	return c
}

// RecordBoardSave はボード保存の成功とレイテンシを記録する。
func (c *Collector) RecordBoardSave(duration time.Duration) {
	c.boardSaves.Inc()
	c.saveLatency.Observe(duration.Seconds())
}

// RecordBoardSaveFailure はボード保存の失敗を記録する。
func (c *Collector) RecordBoardSaveFailure() {
	c.saveFailures.Inc()
}

// RecordRowsUpserted はアップサートされた子エンティティ数を記録する。
func (c *Collector) RecordRowsUpserted(count int) {
	c.rowsUpserted.Add(float64(count))
}

// RecordRowsSkipped はスキップされた子エンティティ数を記録する。
func (c *Collector) RecordRowsSkipped(count int) {
	c.rowsSkipped.Add(float64(count))
}

// RecordAuthDenied は認証・認可の拒否を記録する。
func (c *Collector) RecordAuthDenied() {
	c.authDenied.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
