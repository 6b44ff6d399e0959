package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/laiyoufafa/multimedia-player-framework/internal/suite"
)

// ListCases возвращает каталог кейсов.
// GET /api/v1/cases
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	catalog := suite.Catalog()

	result := make([]CaseResponse, len(catalog))
	for i, tc := range catalog {
		result[i] = CaseFromDomain(tc)
	}

	List(w, result, len(result))
}

// GetCase возвращает кейс по номеру.
// GET /api/v1/cases/{number}
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	number, ok := caseNumber(w, r)
	if !ok {
		return
	}

	tc, err := suite.Find(number)
	if err != nil {
		NotFound(w, "case not found")
		return
	}

	Success(w, CaseFromDomain(tc))
}

// CreateCaseRun ставит кейс каталога в очередь.
// POST /api/v1/cases/{number}/runs
func (h *Handler) CreateCaseRun(w http.ResponseWriter, r *http.Request) {
	number, ok := caseNumber(w, r)
	if !ok {
		return
	}
	if h.runs == nil {
		Unavailable(w, "runner is not available")
		return
	}

	run, err := h.runs.SubmitNumber(r.Context(), number)
	if errors.Is(err, suite.ErrCaseNotFound) {
		NotFound(w, "case not found")
		return
	}
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	Created(w, RunFromDomain(*run))
}

func caseNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		BadRequest(w, "invalid case number")
		return 0, false
	}
	return number, true
}
