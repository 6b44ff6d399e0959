package media

import "errors"

// Ошибки платформы.
var (
	// ErrInvalidState — вызов недопустим в текущем состоянии рекордера.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrReleased — рекордер уже освобождён.
	ErrReleased = errors.New("recorder released")

	// ErrNoCamera — платформа не сообщила ни одной камеры.
	ErrNoCamera = errors.New("no supported camera")

	// ErrNoProfile — у камеры нет подходящего профиля выхода.
	ErrNoProfile = errors.New("no output profile")

	// ErrSessionConfig — операция над сессией вне beginConfig/commitConfig.
	ErrSessionConfig = errors.New("capture session not in config mode")
)
