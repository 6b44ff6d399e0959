package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/api"
	"github.com/laiyoufafa/multimedia-player-framework/internal/orchestrator"
	"github.com/laiyoufafa/multimedia-player-framework/internal/repo"
	"github.com/laiyoufafa/multimedia-player-framework/internal/sim"
	"github.com/laiyoufafa/multimedia-player-framework/internal/suite"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newServer поднимает API с оркестратором поверх симулятора.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := quietLogger()
	store := repo.NewMemoryStore()

	s := suite.New(sim.NewPlatform(sim.Config{}).Media(), suite.Config{
		OutputDir:      t.TempDir(),
		RecordInterval: time.Millisecond,
		PauseInterval:  time.Millisecond,
		CaseTimeout:    5 * time.Second,
		Logger:         logger,
	})
	orch := orchestrator.New(orchestrator.Config{Store: store, Executor: s, Logger: logger})
	if err := orch.Start(context.Background()); err != nil {
		t.Fatalf("start orchestrator: %v", err)
	}
	t.Cleanup(orch.Stop)

	mux := http.NewServeMux()
	api.NewHandler(api.Config{Store: store, Runs: orch, Logger: logger}).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// --- Client Tests ---

func TestClient_ListCases(t *testing.T) {
	client := NewClient(newServer(t).URL + "/")

	cases, err := client.ListCases()
	if err != nil {
		t.Fatalf("list cases: %v", err)
	}
	if len(cases) != 14 {
		t.Errorf("expected 14 cases, got %d", len(cases))
	}
	if cases[0].Steps[len(cases[0].Steps)-1] != "end" {
		t.Errorf("expected token names, got %v", cases[0].Steps)
	}
}

func TestClient_StartCaseAndWait(t *testing.T) {
	client := NewClient(newServer(t).URL)

	run, err := client.StartCase(100)
	if err != nil {
		t.Fatalf("start case: %v", err)
	}
	if run.Status != "PENDING" {
		t.Errorf("expected PENDING, got %s", run.Status)
	}

	finished, err := client.WaitRun(run.ID, 10*time.Millisecond, 10*time.Second)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if finished.Status != "PASSED" {
		t.Errorf("expected PASSED, got %s (%v)", finished.Status, finished.Failures)
	}

	runs, err := client.ListRuns(ListRunsOpts{Case: 100, Status: "passed"})
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Errorf("expected the finished run, got %v", runs)
	}
}

func TestClient_StartPlan(t *testing.T) {
	client := NewClient(newServer(t).URL)

	run, err := client.StartPlan([]byte("name: smoke\nsteps: [create_promise, release_promise, end]\n"))
	if err != nil {
		t.Fatalf("start plan: %v", err)
	}
	if run.CaseName != "smoke" {
		t.Errorf("expected case name smoke, got %q", run.CaseName)
	}

	if _, err := client.StartPlan([]byte("steps: [create_promise]")); err == nil || !strings.Contains(err.Error(), "INVALID_PLAN") {
		t.Errorf("expected INVALID_PLAN error, got %v", err)
	}
}

func TestClient_Errors(t *testing.T) {
	client := NewClient(newServer(t).URL)

	if _, err := client.StartCase(4242); err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("expected NOT_FOUND error, got %v", err)
	}
	if _, err := client.GetRun("nope"); err == nil || !strings.Contains(err.Error(), "BAD_REQUEST") {
		t.Errorf("expected BAD_REQUEST error, got %v", err)
	}
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).ListCases()
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("expected HTTP 502 error, got %v", err)
	}
}

// --- Case Command Tests ---

func TestCaseRunCmd_JSONReport(t *testing.T) {
	t.Setenv("AVREC_SETTLE_MS", "0")
	var stdout bytes.Buffer

	cmd := NewCaseCmd(
		func() *Output { return NewOutputTo(true, &stdout, io.Discard) },
		quietLogger,
	)
	cmd.SetArgs([]string{"run", "100", "1300", "--record", "1ms", "--pause", "1ms", "--output-dir", t.TempDir()})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var report struct {
		Total  int `json:"total"`
		Passed int `json:"passed"`
		Runs   []struct {
			CaseNumber int    `json:"case_number"`
			Status     string `json:"status"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v (%s)", err, stdout.String())
	}
	if report.Total != 2 || report.Passed != 2 {
		t.Errorf("expected 2/2 passed, got %+v", report)
	}
	if report.Runs[1].CaseNumber != 1300 {
		t.Errorf("expected runs in argument order, got %+v", report.Runs)
	}
}

func TestCaseRunCmd_Plan(t *testing.T) {
	t.Setenv("AVREC_SETTLE_MS", "0")
	path := filepath.Join(t.TempDir(), "plan.yaml")
	_ = os.WriteFile(path, []byte("name: quick\nsteps: [create_promise, prepare_promise, release_promise, end]\n"), 0o644)

	var stdout bytes.Buffer
	cmd := NewCaseCmd(func() *Output { return NewOutputTo(false, &stdout, io.Discard) }, quietLogger)
	cmd.SetArgs([]string{"run", "--plan", path, "--output-dir", t.TempDir()})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(stdout.String(), "quick") || !strings.Contains(stdout.String(), "PASSED") {
		t.Errorf("unexpected table:\n%s", stdout.String())
	}
}

func TestCaseRunCmd_UnsupportedBackend(t *testing.T) {
	cmd := NewCaseCmd(func() *Output { return NewOutputTo(false, io.Discard, io.Discard) }, quietLogger)
	cmd.SetArgs([]string{"run", "--backend", "device"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unsupported backend") {
		t.Errorf("expected unsupported backend error, got %v", err)
	}
}

func TestCaseListCmd(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewCaseCmd(func() *Output { return NewOutputTo(false, &stdout, io.Discard) }, quietLogger)
	cmd.SetArgs([]string{"list"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 16 {
		t.Errorf("expected header, separator and 14 rows, got %d lines", len(lines))
	}
}

// --- selectCases Tests ---

func TestSelectCases(t *testing.T) {
	all, err := selectCases(nil, "")
	if err != nil || len(all) != 14 {
		t.Errorf("expected full catalog, got %d (%v)", len(all), err)
	}

	picked, err := selectCases([]string{"200", "100"}, "")
	if err != nil || len(picked) != 2 || picked[0].Number != 200 {
		t.Errorf("unexpected selection %v (%v)", picked, err)
	}

	if _, err := selectCases([]string{"x"}, ""); err == nil {
		t.Error("expected error for invalid number")
	}
	if _, err := selectCases([]string{"4242"}, ""); !errors.Is(err, suite.ErrCaseNotFound) {
		t.Errorf("expected ErrCaseNotFound, got %v", err)
	}
	if _, err := selectCases([]string{"100"}, "plan.yaml"); err == nil {
		t.Error("expected error for numbers with --plan")
	}
}
