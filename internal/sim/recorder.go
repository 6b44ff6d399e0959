package sim

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

var surfaceSeq atomic.Int64

// Recorder — симулированный рекордер.
type Recorder struct {
	mu         sync.Mutex
	cfg        Config
	logger     *slog.Logger
	state      domain.RecorderState
	avConfig   *domain.AVConfig
	surfaceID  string
	events     chan media.Event
	subscribed bool
	calls      []string
}

func newRecorder(cfg Config) *Recorder {
	return &Recorder{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "sim-recorder"),
		state:  domain.RecorderStateIdle,
		events: make(chan media.Event, media.EventBufferSize),
	}
}

// State возвращает текущее состояние.
func (r *Recorder) State() domain.RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Config возвращает конфигурацию последнего успешного prepare.
func (r *Recorder) Config() *domain.AVConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.avConfig
}

// Calls возвращает имена успешных вызовов в порядке выполнения.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) Prepare(ctx context.Context, cfg domain.AVConfig) error {
	if !strings.HasPrefix(cfg.URL, domain.DefaultURL) {
		return fmt.Errorf("prepare: invalid url %q", cfg.URL)
	}
	if !cfg.Profile.HasAudio() && !cfg.Profile.HasVideo() {
		return fmt.Errorf("prepare: profile has neither audio nor video")
	}
	return r.transition(ctx, "prepare", domain.RecorderStatePrepared, func(s domain.RecorderState) bool {
		return s == domain.RecorderStateIdle || s == domain.RecorderStateStopped
	}, func() {
		c := cfg.Clone()
		r.avConfig = &c
	})
}

func (r *Recorder) GetInputSurface(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.cfg.failure("getInputSurface"); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != domain.RecorderStatePrepared {
		return "", fmt.Errorf("%w: getInputSurface in %s", media.ErrInvalidState, r.state)
	}
	if r.avConfig == nil || !r.avConfig.HasVideo() {
		return "", fmt.Errorf("%w: no video source configured", media.ErrInvalidState)
	}
	r.surfaceID = fmt.Sprintf("%d", 1000+surfaceSeq.Add(1))
	r.calls = append(r.calls, "getInputSurface")
	return r.surfaceID, nil
}

func (r *Recorder) Start(ctx context.Context) error {
	return r.transition(ctx, "start", domain.RecorderStateStarted, is(domain.RecorderStatePrepared), nil)
}

func (r *Recorder) Pause(ctx context.Context) error {
	return r.transition(ctx, "pause", domain.RecorderStatePaused, is(domain.RecorderStateStarted), nil)
}

func (r *Recorder) Resume(ctx context.Context) error {
	return r.transition(ctx, "resume", domain.RecorderStateStarted, is(domain.RecorderStatePaused), nil)
}

func (r *Recorder) Stop(ctx context.Context) error {
	return r.transition(ctx, "stop", domain.RecorderStateStopped, func(s domain.RecorderState) bool {
		return s == domain.RecorderStateStarted || s == domain.RecorderStatePaused
	}, nil)
}

func (r *Recorder) Reset(ctx context.Context) error {
	return r.transition(ctx, "reset", domain.RecorderStateIdle, func(s domain.RecorderState) bool {
		return s != domain.RecorderStateReleased
	}, func() {
		r.avConfig = nil
		r.surfaceID = ""
	})
}

func (r *Recorder) Release(ctx context.Context) error {
	return r.transition(ctx, "release", domain.RecorderStateReleased, func(s domain.RecorderState) bool {
		return s != domain.RecorderStateReleased
	}, nil)
}

// On подписывается на события.
func (r *Recorder) On() <-chan media.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribed = true
	return r.events
}

// Off прекращает доставку событий.
func (r *Recorder) Off() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribed = false
}

// Inject публикует произвольное событие подписчику.
// Для EventStateChange также выставляет состояние.
func (r *Recorder) Inject(ev media.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ev.Kind == media.EventStateChange {
		r.state = ev.State
	}
	r.emitLocked(ev)
}

func (r *Recorder) transition(ctx context.Context, op string, to domain.RecorderState, allowed func(domain.RecorderState) bool, apply func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.cfg.failure(op); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == domain.RecorderStateReleased {
		return fmt.Errorf("%w: %s", media.ErrReleased, op)
	}
	if !allowed(r.state) {
		return fmt.Errorf("%w: %s in %s", media.ErrInvalidState, op, r.state)
	}
	if apply != nil {
		apply()
	}

	r.logger.Debug("state changed", "op", op, "from", r.state, "to", to)
	r.state = to
	r.calls = append(r.calls, op)
	r.emitLocked(media.Event{Kind: media.EventStateChange, State: to})
	return nil
}

func (r *Recorder) emitLocked(ev media.Event) {
	if !r.subscribed {
		return
	}
	select {
	case r.events <- ev:
	default:
		r.logger.Warn("event dropped, subscriber too slow", "kind", ev.Kind, "state", ev.State)
	}
}

func is(want domain.RecorderState) func(domain.RecorderState) bool {
	return func(s domain.RecorderState) bool { return s == want }
}

// RecorderFactory создаёт симулированные рекордеры.
type RecorderFactory struct {
	cfg Config

	mu      sync.Mutex
	created []*Recorder
}

// CreateRecorder создаёт рекордер в состоянии idle.
func (f *RecorderFactory) CreateRecorder(ctx context.Context) (media.Recorder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.cfg.failure("create"); err != nil {
		return nil, err
	}

	rec := newRecorder(f.cfg)

	f.mu.Lock()
	f.created = append(f.created, rec)
	f.mu.Unlock()

	return rec, nil
}

// Created возвращает все созданные рекордеры.
func (f *RecorderFactory) Created() []*Recorder {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*Recorder, len(f.created))
	copy(out, f.created)
	return out
}

// Last возвращает последний созданный рекордер или nil.
func (f *RecorderFactory) Last() *Recorder {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.created) == 0 {
		return nil
	}
	return f.created[len(f.created)-1]
}
