package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StepsDispatched — количество выполненных шагов по токену.
	StepsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avrec_steps_dispatched_total",
		Help: "Step tokens dispatched by the step-queue runner.",
	}, []string{"token"})

	// StateChanges — события смены состояния рекордера.
	StateChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avrec_state_changes_total",
		Help: "Recorder state-change events consumed by the runner.",
	}, []string{"state"})

	// PlatformFailures — неуспешные вызовы платформы по токену.
	PlatformFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avrec_platform_failures_total",
		Help: "Platform calls routed to the failure or catch handler.",
	}, []string{"token"})

	// CaseRuns — завершённые прогоны по статусу.
	CaseRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avrec_case_runs_total",
		Help: "Finished case runs by final status.",
	}, []string{"status"})

	// CaseRunDuration — длительность прогона кейса.
	CaseRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "avrec_case_run_duration_seconds",
		Help:    "Wall-clock duration of a case run.",
		Buckets: []float64{1, 2, 5, 10, 15, 20, 30, 45, 60, 90},
	})

	// HTTPRequests — запросы к API по маршруту и коду ответа.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avrec_http_requests_total",
		Help: "HTTP API requests by route pattern and status code.",
	}, []string{"route", "code"})
)
