package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/orchestrator"
	"github.com/laiyoufafa/multimedia-player-framework/internal/repo"
)

type testServer struct {
	store *repo.MemoryStore
	mux   *http.ServeMux
}

// newTestServer собирает API поверх незапущенного оркестратора:
// заявки сохраняются как PENDING и не выполняются.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repo.NewMemoryStore()
	orch := orchestrator.New(orchestrator.Config{Store: store, Logger: logger})

	mux := http.NewServeMux()
	NewHandler(Config{Store: store, Runs: orch, Logger: logger}).RegisterRoutes(mux)
	return &testServer{store: store, mux: mux}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var resp struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return resp.Data
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) ErrorCode {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return resp.Error.Code
}

// --- Cases Tests ---

func TestListCases(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/cases", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	cases := decodeData[[]CaseResponse](t, rec)
	if len(cases) != 14 {
		t.Fatalf("expected 14 cases, got %d", len(cases))
	}
	if cases[0].Number != 100 || cases[0].Name != domain.CaseName(100) {
		t.Errorf("unexpected first case %+v", cases[0])
	}
	if last := cases[0].Steps[len(cases[0].Steps)-1]; last != domain.TokenEnd {
		t.Errorf("expected steps ending with end, got %s", last)
	}
}

func TestGetCase(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/api/v1/cases/1300", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/cases/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/cases/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// --- Runs Tests ---

func TestCreateCaseRun_AndGet(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cases/500/runs", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	run := decodeData[RunResponse](t, rec)
	if run.CaseNumber != 500 || run.Status != string(domain.CaseStatusPending) {
		t.Errorf("unexpected run %+v", run)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/runs/"+run.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeData[RunResponse](t, rec); got.ID != run.ID {
		t.Errorf("expected run %s, got %s", run.ID, got.ID)
	}
}

func TestCreateCaseRun_UnknownCase(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cases/4242/runs", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCreatePlanRun(t *testing.T) {
	s := newTestServer(t)

	body := "name: smoke\nsteps: [create_promise, prepare_promise, release_promise, end]\n"
	rec := s.do(t, http.MethodPost, "/api/v1/runs", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	run := decodeData[RunResponse](t, rec)
	if run.CaseName != "smoke" || run.CaseNumber != 0 {
		t.Errorf("unexpected run %+v", run)
	}
}

func TestCreatePlanRun_Invalid(t *testing.T) {
	s := newTestServer(t)

	for name, body := range map[string]string{
		"missing end":  `{"steps": ["create_promise"]}`,
		"unknown step": `{"steps": ["launch_rocket", "end"]}`,
		"empty":        `{"steps": []}`,
		"not a plan":   `[1, 2, 3]`,
	} {
		rec := s.do(t, http.MethodPost, "/api/v1/runs", body)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s: expected 422, got %d", name, rec.Code)
			continue
		}
		if code := decodeErrorCode(t, rec); code != ErrCodeInvalidPlan {
			t.Errorf("%s: expected INVALID_PLAN, got %s", name, code)
		}
	}
}

func TestListRuns_Filters(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, number := range []int{100, 200, 100} {
		_ = s.store.Create(ctx, domain.NewCaseRun(domain.TestCase{Number: number, Name: domain.CaseName(number)}))
	}
	passed := domain.NewCaseRun(domain.TestCase{Number: 300, Name: domain.CaseName(300)})
	passed.MarkRunning()
	passed.MarkPassed()
	_ = s.store.Create(ctx, passed)

	rec := s.do(t, http.MethodGet, "/api/v1/runs?case=100", "")
	if runs := decodeData[[]RunResponse](t, rec); len(runs) != 2 {
		t.Errorf("expected 2 runs of case 100, got %d", len(runs))
	}

	rec = s.do(t, http.MethodGet, "/api/v1/runs?status=PASSED", "")
	if runs := decodeData[[]RunResponse](t, rec); len(runs) != 1 || runs[0].CaseNumber != 300 {
		t.Errorf("unexpected passed runs %v", runs)
	}

	rec = s.do(t, http.MethodGet, "/api/v1/runs?limit=1", "")
	if runs := decodeData[[]RunResponse](t, rec); len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}

	if rec := s.do(t, http.MethodGet, "/api/v1/runs?status=DONE", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}
	if rec := s.do(t, http.MethodGet, "/api/v1/runs?case=x", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid case, got %d", rec.Code)
	}
}

func TestGetRun_Errors(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(t, http.MethodGet, "/api/v1/runs/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	rec := s.do(t, http.MethodGet, "/api/v1/runs/6f1c2b1e-8a43-4a8b-9d0e-3c6f2d8f0a11", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCreateRun_NoRunner(t *testing.T) {
	mux := http.NewServeMux()
	NewHandler(Config{Store: repo.NewMemoryStore(), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}).RegisterRoutes(mux)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases/100/runs", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

// --- Middleware Tests ---

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, status: http.StatusOK}
	rw.WriteHeader(http.StatusTeapot)

	if rw.status != http.StatusTeapot || rec.Code != http.StatusTeapot {
		t.Errorf("expected 418 captured, got %d/%d", rw.status, rec.Code)
	}
}
