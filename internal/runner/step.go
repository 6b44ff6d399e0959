package runner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// Advance — что раннер делает после шага.
type Advance int

const (
	// AdvanceNext — сразу перейти к следующему токену.
	AdvanceNext Advance = iota
	// AdvanceSuspend — ждать событие рекордера или завершение callback-вызова.
	AdvanceSuspend
	// AdvanceFinish — завершить прогон.
	AdvanceFinish
)

// String возвращает имя действия.
func (a Advance) String() string {
	switch a {
	case AdvanceNext:
		return "next"
	case AdvanceSuspend:
		return "suspend"
	case AdvanceFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Step — обработчик одного токена.
//
// Step выполняет один вызов платформы и сообщает, как продолжать.
// Результаты callback-вызовов Step передаёт через Case.post.
type Step interface {
	// Token возвращает обрабатываемый токен.
	Token() domain.Token

	// Execute выполняет шаг над контекстом кейса.
	Execute(ctx context.Context, c *Case) Advance
}

// Registry — таблица диспетчеризации токенов.
//
// Потокобезопасен: один реестр разделяют параллельные прогоны API.
type Registry struct {
	mu    sync.RWMutex
	steps map[domain.Token]Step
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[domain.Token]Step),
	}
}

// DefaultRegistry создаёт реестр со всеми токенами словаря.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(endStep{})
	r.Register(createStep{token: domain.TokenCreatePromise, mode: media.ModePromise})
	r.Register(createStep{token: domain.TokenCreateCallback, mode: media.ModeCallback})
	r.Register(getSurfaceStep{token: domain.TokenGetSurfacePromise, mode: media.ModePromise})
	r.Register(getSurfaceStep{token: domain.TokenGetSurfaceCallback, mode: media.ModeCallback})
	for _, s := range stateSteps() {
		r.Register(s)
	}
	r.Register(releaseStep{token: domain.TokenReleasePromise, mode: media.ModePromise})
	r.Register(releaseStep{token: domain.TokenReleaseCallback, mode: media.ModeCallback})
	r.Register(callbackOffStep{})
	r.Register(startCameraStep{})
	r.Register(stopVideoOutputStep{})
	r.Register(releaseCameraStep{})
	r.Register(printInfoStep{})

	return r
}

// Register регистрирует шаг.
// Если шаг для токена уже есть, он будет перезаписан.
func (r *Registry) Register(step Step) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[step.Token()] = step
}

// Get возвращает шаг по токену.
// Возвращает ErrStepNotFound, если токен не зарегистрирован.
func (r *Registry) Get(tok domain.Token) (Step, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	step, exists := r.steps[tok]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrStepNotFound, tok)
	}
	return step, nil
}

// Has проверяет, зарегистрирован ли токен.
func (r *Registry) Has(tok domain.Token) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.steps[tok]
	return exists
}

// Tokens возвращает зарегистрированные токены в порядке кодов.
func (r *Registry) Tokens() []domain.Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]domain.Token, 0, len(r.steps))
	for t := range r.steps {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// Count возвращает количество зарегистрированных шагов.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// Unregister удаляет шаг из реестра.
func (r *Registry) Unregister(tok domain.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.steps, tok)
}
