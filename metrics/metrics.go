package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpchat",
		Subsystem: "commands",
		Name:      "total",
		Help:      "Transaction commands handled, broken down by action, kind and outcome.",
	}, []string{"action", "kind", "outcome"})

	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpchat",
		Subsystem: "pipeline",
		Name:      "runs_total",
		Help:      "Query pipeline runs broken down by outcome.",
	}, []string{"outcome"})

	llmCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "erpchat",
		Subsystem: "llm",
		Name:      "calls_total",
		Help:      "Chat completion calls broken down by purpose and result.",
	}, []string{"purpose", "result"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "erpchat",
		Subsystem: "http",
		Name:      "latency_seconds",
		Help:      "Latency distribution for HTTP requests.",
		Buckets: []float64{
			0.005, 0.01, 0.05,
			0.1, 0.5, 1,
			2, 5, 10, 30,
		},
	}, []string{"route", "status"})
)

// Command outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeNotFound        = "not_found"
	OutcomeAlreadyApproved = "already_approved"
	OutcomeError           = "error"
)

// Pipeline outcomes.
const (
	PipelineSummary = "summary"
	PipelineExport  = "export"
	PipelineFailed  = "failed"
)

func RecordCommand(action, kind, outcome string) {
	commands.WithLabelValues(action, kind, outcome).Inc()
}

func RecordPipeline(outcome string) {
	pipelineRuns.WithLabelValues(outcome).Inc()
}

func RecordLLMCall(purpose string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	llmCalls.WithLabelValues(purpose, result).Inc()
}

func ObserveHTTP(route, status string, d time.Duration) {
	httpLatency.WithLabelValues(route, status).Observe(d.Seconds())
}
