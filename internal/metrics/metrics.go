// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelinesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "interview_pipelines_started_total",
		Help: "Number of interview sessions started.",
	})

	NotesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_notes_recorded_total",
		Help: "Notes appended to pipelines, by kind.",
	}, []string{"kind"})

	ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_model_calls_total",
		Help: "Generative model invocations, by task and outcome.",
	}, []string{"task", "outcome"})

	ContractViolations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_contract_violations_total",
		Help: "Model responses rejected by contract validation, by task.",
	}, []string{"task"})
)
