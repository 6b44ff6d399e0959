package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Metrics(),
		Logging(h.logger),
	)

	// Cases
	mux.Handle("GET /api/v1/cases", chain(http.HandlerFunc(h.ListCases)))
	mux.Handle("GET /api/v1/cases/{number}", chain(http.HandlerFunc(h.GetCase)))
	mux.Handle("POST /api/v1/cases/{number}/runs", chain(http.HandlerFunc(h.CreateCaseRun)))

	// Runs
	mux.Handle("GET /api/v1/runs", chain(http.HandlerFunc(h.ListRuns)))
	mux.Handle("POST /api/v1/runs", chain(http.HandlerFunc(h.CreatePlanRun)))
	mux.Handle("GET /api/v1/runs/{id}", chain(http.HandlerFunc(h.GetRun)))
}
