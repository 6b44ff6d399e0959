package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/plan"
	"github.com/laiyoufafa/multimedia-player-framework/internal/repo"
)

// maxPlanBytes — предел размера тела с планом.
const maxPlanBytes = 64 << 10

// ListRuns возвращает список прогонов с фильтрацией.
// GET /api/v1/runs?case=...&status=...&limit=...&offset=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repo.CaseRunFilter{
		Limit:  parseInt(query.Get("limit"), repo.DefaultListLimit),
		Offset: parseInt(query.Get("offset"), 0),
	}

	if caseStr := query.Get("case"); caseStr != "" {
		number, err := strconv.Atoi(caseStr)
		if err != nil {
			BadRequest(w, "invalid case")
			return
		}
		filter.CaseNumber = &number
	}

	if status := query.Get("status"); status != "" {
		filter.Status = domain.ParseCaseStatus(status)
		if string(filter.Status) != status {
			BadRequest(w, "invalid status")
			return
		}
	}

	runs, err := h.store.List(r.Context(), filter)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i, run := range runs {
		result[i] = RunFromDomain(run)
	}

	List(w, result, len(result))
}

// CreatePlanRun ставит в очередь план из тела запроса (JSON или YAML).
// POST /api/v1/runs
func (h *Handler) CreatePlanRun(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		Unavailable(w, "runner is not available")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPlanBytes+1))
	if err != nil {
		BadRequest(w, "invalid request body")
		return
	}
	if len(body) > maxPlanBytes {
		BadRequest(w, "plan is too large")
		return
	}

	p, err := plan.Parse(body)
	if err != nil {
		InvalidPlan(w, err.Error())
		return
	}
	tc, err := p.TestCase()
	if err != nil {
		var verr *plan.ValidationError
		if errors.As(err, &verr) {
			InvalidPlan(w, verr.Error())
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	run, err := h.runs.Submit(r.Context(), tc)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Created(w, RunFromDomain(*run))
}

// GetRun возвращает прогон по ID.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.store.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}

	Success(w, RunFromDomain(*run))
}

// parseInt парсит неотрицательное число с дефолтным значением.
func parseInt(s string, defaultVal int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return defaultVal
	}
	return n
}
