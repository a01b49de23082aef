// Package metrics 提供报告增强流水线的 Prometheus 指标。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GradeResolutions 年级解析次数，rule 为命中的规则或 unresolved
	GradeResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Name:      "grade_resolutions_total",
			Help:      "Total number of grade resolutions by matching rule",
		},
		[]string{"rule"},
	)

	// SummaryGenerations 总结生成次数
	SummaryGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Name:      "summary_generations_total",
			Help:      "Total number of summary generations",
		},
		[]string{"status"},
	)

	// VenueLookups 场馆查询次数
	VenueLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Name:      "venue_lookups_total",
			Help:      "Total number of venue lookups",
		},
		[]string{"category", "status"},
	)

	// VenueLookupDuration 场馆查询耗时
	VenueLookupDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insight",
			Name:      "venue_lookup_duration_seconds",
			Help:      "Duration of venue lookups in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// BatchItems 批量任务中的条目结果
	BatchItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "insight",
			Name:      "batch_items_total",
			Help:      "Total number of batch items processed",
		},
		[]string{"job", "status"},
	)
)

// RecordGrade 记录一次年级解析
func RecordGrade(rule string) {
	if rule == "" {
		rule = "unresolved"
	}
	GradeResolutions.WithLabelValues(rule).Inc()
}

// RecordSummary 记录一次总结生成
func RecordSummary(status string) {
	SummaryGenerations.WithLabelValues(status).Inc()
}

// RecordVenueLookup 记录一次场馆查询
func RecordVenueLookup(category, status string, duration float64) {
	VenueLookups.WithLabelValues(category, status).Inc()
	VenueLookupDuration.WithLabelValues(category).Observe(duration)
}

// RecordBatchItem 记录批量任务中的单个条目
func RecordBatchItem(job, status string) {
	BatchItems.WithLabelValues(job, status).Inc()
}
