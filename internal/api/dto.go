package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// Case DTOs

// CaseResponse — ответ с кейсом каталога.
type CaseResponse struct {
	Number      int            `json:"number"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Level       string         `json:"level"`
	Size        string         `json:"size"`
	Steps       []domain.Token `json:"steps"`
}

// CaseFromDomain конвертирует domain.TestCase в CaseResponse.
func CaseFromDomain(tc domain.TestCase) CaseResponse {
	return CaseResponse{
		Number:      tc.Number,
		Name:        tc.Name,
		Description: tc.Description,
		Level:       tc.Level,
		Size:        tc.Size,
		Steps:       tc.StepsCopy(),
	}
}

// Run DTOs

// RunResponse — ответ с прогоном.
type RunResponse struct {
	ID         uuid.UUID      `json:"id"`
	CaseNumber int            `json:"case_number"`
	CaseName   string         `json:"case_name"`
	Status     string         `json:"status"`
	Dispatched []domain.Token `json:"dispatched,omitempty"`
	Failures   []string       `json:"failures,omitempty"`
	FileName   string         `json:"file_name,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	DurationMS int64          `json:"duration_ms,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// RunFromDomain конвертирует domain.CaseRun в RunResponse.
func RunFromDomain(r domain.CaseRun) RunResponse {
	return RunResponse{
		ID:         r.ID,
		CaseNumber: r.CaseNumber,
		CaseName:   r.CaseName,
		Status:     string(r.Status),
		Dispatched: r.Dispatched,
		Failures:   r.Failures,
		FileName:   r.FileName,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMS: r.Duration().Milliseconds(),
		Error:      r.Error,
		CreatedAt:  r.CreatedAt,
	}
}
