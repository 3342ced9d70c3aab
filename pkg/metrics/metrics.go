package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics Prometheus 指标集合
// 每个实例持有独立 Registry，方法均允许 nil 接收者
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	claimsSubmitted  prometheus.Counter
	claimsReviewed   *prometheus.CounterVec
	assistantReplies *prometheus.CounterVec
	notifyFailures   prometheus.Counter
}

// New 创建并注册全部指标
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emsi",
			Name:      "http_requests_total",
			Help:      "HTTP 请求总数",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "emsi",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP 请求耗时",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		claimsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emsi",
			Name:      "claims_submitted_total",
			Help:      "提交的缺勤申请数",
		}),
		claimsReviewed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emsi",
			Name:      "claims_reviewed_total",
			Help:      "审核的缺勤申请数（按结果）",
		}, []string{"status"}),
		assistantReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emsi",
			Name:      "assistant_replies_total",
			Help:      "助手回复数（按规则类别）",
		}, []string{"category"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emsi",
			Name:      "notification_publish_failures_total",
			Help:      "通知意图投递失败次数",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpLatency,
		m.claimsSubmitted,
		m.claimsReviewed,
		m.assistantReplies,
		m.notifyFailures,
	)
	return m
}

// Handler 返回 /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 暴露底层 Registry（测试用）
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTP(method, route, status string, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

func (m *Metrics) ClaimSubmitted() {
	if m == nil {
		return
	}
	m.claimsSubmitted.Inc()
}

func (m *Metrics) ClaimReviewed(status string) {
	if m == nil {
		return
	}
	m.claimsReviewed.WithLabelValues(status).Inc()
}

func (m *Metrics) AssistantReplied(category string) {
	if m == nil {
		return
	}
	m.assistantReplies.WithLabelValues(category).Inc()
}

func (m *Metrics) NotifyFailed() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}
