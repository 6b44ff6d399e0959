package domain

import (
	"time"

	"github.com/google/uuid"
)

// CaseRun — один прогон тестового кейса.
//
// CaseRun создаётся когда:
// - Пользователь запускает кейс вручную (через API/CLI)
// - Scheduler запускает весь набор по расписанию
// - Запрос на прогон пришёл через очередь сообщений
type CaseRun struct {
	// ID — уникальный идентификатор прогона.
	ID uuid.UUID `json:"id"`

	// CaseNumber — номер кейса в каталоге (100, 200, ... 1400).
	// 0 для пользовательского плана.
	CaseNumber int `json:"case_number"`

	// CaseName — полное имя кейса, например SUB_MULTIMEDIA_MEDIA_AVRECORDER_FUNC_0100.
	CaseName string `json:"case_name"`

	// Status — текущий статус прогона.
	Status CaseStatus `json:"status"`

	// Dispatched — токены в порядке фактической диспетчеризации.
	Dispatched []Token `json:"dispatched,omitempty"`

	// Failures — проваленные проверки.
	// Непустой список означает FAILED.
	Failures []string `json:"failures,omitempty"`

	// FileName — имя файла, в который писал рекордер.
	FileName string `json:"file_name,omitempty"`

	// StartedAt — время начала прогона.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения прогона.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — причина провала, если прогон не дошёл до END.
	Error string `json:"error,omitempty"`

	// CreatedAt — время создания записи.
	CreatedAt time.Time `json:"created_at"`
}

// NewCaseRun создаёт прогон в статусе PENDING.
func NewCaseRun(tc TestCase) *CaseRun {
	return &CaseRun{
		ID:         uuid.New(),
		CaseNumber: tc.Number,
		CaseName:   tc.Name,
		Status:     CaseStatusPending,
		CreatedAt:  time.Now(),
	}
}

// Duration возвращает продолжительность прогона.
// Возвращает 0, если прогон ещё не завершён.
func (r *CaseRun) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если прогон завершён (в любом статусе).
func (r *CaseRun) IsFinished() bool {
	return r.Status.IsTerminal()
}

// AddFailure записывает проваленную проверку.
func (r *CaseRun) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
}

// MarkRunning переводит прогон в статус RUNNING.
func (r *CaseRun) MarkRunning() {
	now := time.Now()
	r.Status = CaseStatusRunning
	r.StartedAt = &now
}

// Finish выставляет финальный статус по накопленным проверкам.
func (r *CaseRun) Finish() {
	if len(r.Failures) > 0 {
		r.MarkFailed(r.Failures[0])
		return
	}
	r.MarkPassed()
}

// MarkPassed переводит прогон в статус PASSED.
func (r *CaseRun) MarkPassed() {
	now := time.Now()
	r.Status = CaseStatusPassed
	r.FinishedAt = &now
}

// MarkFailed переводит прогон в статус FAILED с ошибкой.
func (r *CaseRun) MarkFailed(err string) {
	now := time.Now()
	r.Status = CaseStatusFailed
	r.FinishedAt = &now
	r.Error = err
}
