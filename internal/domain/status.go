package domain

// RecorderState — состояние рекордера, сообщаемое платформой.
//
// Жизненный цикл:
//
//	idle → prepared → started ⇄ paused
//	                     ↘        ↙
//	                      stopped → prepared (повторный prepare)
//	(из любого) reset → idle
//	(из любого) release → released
//	(из любого) сбой → error
type RecorderState string

const (
	// RecorderStateIdle — рекордер создан или сброшен.
	RecorderStateIdle RecorderState = "idle"

	// RecorderStatePrepared — параметры записи применены.
	RecorderStatePrepared RecorderState = "prepared"

	// RecorderStateStarted — идёт запись.
	RecorderStateStarted RecorderState = "started"

	// RecorderStatePaused — запись на паузе.
	RecorderStatePaused RecorderState = "paused"

	// RecorderStateStopped — запись остановлена, файл закрыт.
	RecorderStateStopped RecorderState = "stopped"

	// RecorderStateReleased — ресурсы рекордера освобождены.
	RecorderStateReleased RecorderState = "released"

	// RecorderStateError — рекордер в состоянии ошибки.
	RecorderStateError RecorderState = "error"
)

// String возвращает строковое представление состояния.
func (s RecorderState) String() string {
	return string(s)
}

// IsTerminal возвращает true, если рекордер больше нельзя использовать.
func (s RecorderState) IsTerminal() bool {
	return s == RecorderStateReleased
}

// CaseStatus — статус прогона тестового кейса.
//
// Жизненный цикл:
//
//	PENDING → RUNNING → PASSED
//	                  ↘ FAILED
type CaseStatus string

const (
	// CaseStatusPending — прогон создан, но ещё не начат.
	CaseStatusPending CaseStatus = "PENDING"

	// CaseStatusRunning — очередь шагов выполняется.
	CaseStatusRunning CaseStatus = "RUNNING"

	// CaseStatusPassed — очередь дошла до END без проваленных проверок.
	CaseStatusPassed CaseStatus = "PASSED"

	// CaseStatusFailed — проверка провалена или прогон не завершился.
	CaseStatusFailed CaseStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s CaseStatus) IsTerminal() bool {
	switch s {
	case CaseStatusPassed, CaseStatusFailed:
		return true
	default:
		return false
	}
}

// ParseCaseStatus парсит строку в CaseStatus.
func ParseCaseStatus(s string) CaseStatus {
	switch s {
	case "RUNNING":
		return CaseStatusRunning
	case "PASSED":
		return CaseStatusPassed
	case "FAILED":
		return CaseStatusFailed
	default:
		return CaseStatusPending
	}
}
