package media

import (
	"context"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// EventKind — тип события рекордера.
type EventKind int

const (
	// EventStateChange — рекордер сменил состояние.
	EventStateChange EventKind = iota
	// EventError — асинхронная ошибка рекордера.
	EventError
)

// String возвращает имя типа события.
func (k EventKind) String() string {
	switch k {
	case EventStateChange:
		return "stateChange"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// EventBufferSize — ёмкость канала подписки.
const EventBufferSize = 16

// Event — уведомление от рекордера.
type Event struct {
	Kind EventKind

	// State — новое состояние (для EventStateChange).
	State domain.RecorderState

	// Reason — код причины смены состояния.
	Reason int

	// Err — ошибка (для EventError).
	Err error
}

// Recorder — рекордер аудио/видео.
//
// Методы State-изменяющих вызовов (Prepare, Start, Pause, Resume, Stop,
// Reset, Release) при успехе публикуют EventStateChange в канал подписки.
// Неуспешный вызов возвращает ошибку и события не публикует.
type Recorder interface {
	// State возвращает текущее состояние.
	State() domain.RecorderState

	Prepare(ctx context.Context, cfg domain.AVConfig) error

	// GetInputSurface возвращает идентификатор поверхности, в которую
	// камера должна отдавать кадры. Допустим только в состоянии prepared.
	GetInputSurface(ctx context.Context) (string, error)

	Start(ctx context.Context) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Reset(ctx context.Context) error
	Release(ctx context.Context) error

	// On подписывается на события и возвращает канал доставки.
	On() <-chan Event

	// Off прекращает доставку событий.
	Off()
}

// RecorderFactory создаёт рекордеры.
type RecorderFactory interface {
	CreateRecorder(ctx context.Context) (Recorder, error)
}
