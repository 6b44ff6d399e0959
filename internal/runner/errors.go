package runner

import "errors"

// Ошибки раннера.
var (
	// ErrStepNotFound — токен не зарегистрирован в реестре.
	ErrStepNotFound = errors.New("step not found")

	// ErrStalled — прогон не дошёл до END до истечения контекста.
	ErrStalled = errors.New("case stalled waiting for recorder")

	// ErrEmptyQueue — прогон запущен с пустой очередью.
	ErrEmptyQueue = errors.New("empty step queue")
)
