package plan

import "errors"

// Ошибки валидации плана.
var (
	// ErrEmptySteps — план не содержит шагов.
	ErrEmptySteps = errors.New("plan has no steps")

	// ErrMissingEnd — последний шаг плана не end.
	ErrMissingEnd = errors.New("plan does not end with end")

	// ErrUnknownToken — имя шага не входит в словарь.
	ErrUnknownToken = errors.New("unknown step token")

	// ErrSchema — документ не соответствует схеме плана.
	ErrSchema = errors.New("plan does not match schema")
)

// ValidationError — ошибка валидации с позицией шага.
type ValidationError struct {
	Index   int    // индекс шага, -1 если ошибка не относится к шагу
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return "step " + itoa(e.Index) + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(index int, message string, err error) *ValidationError {
	return &ValidationError{
		Index:   index,
		Message: message,
		Err:     err,
	}
}
