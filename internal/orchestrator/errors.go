package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrRunAlreadyActive — прогон уже в очереди или выполняется.
	ErrRunAlreadyActive = errors.New("run already being processed")

	// ErrOrchestratorStopped — оркестратор остановлен.
	ErrOrchestratorStopped = errors.New("orchestrator stopped")

	// ErrUnexpectedMessage — в очередь заявок пришло сообщение другого типа.
	ErrUnexpectedMessage = errors.New("unexpected message type")

	// ErrNotRecoverable — прогон нельзя восстановить после рестарта:
	// его кейса нет в каталоге (например, план из файла).
	ErrNotRecoverable = errors.New("case run not recoverable")
)

// ErrQueueFull — очередь заявок заполнена; прогон остаётся PENDING до следующего poll.
var ErrQueueFull = errors.New("run queue is full")
