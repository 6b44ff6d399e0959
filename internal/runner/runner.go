package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
	"github.com/laiyoufafa/multimedia-player-framework/internal/telemetry"
)

// Интервалы по умолчанию.
const (
	DefaultRecordInterval = 3 * time.Second
	DefaultPauseInterval  = 1 * time.Second
)

// Config — настройки раннера.
type Config struct {
	// Registry — таблица диспетчеризации. По умолчанию DefaultRegistry().
	Registry *Registry

	// RecordInterval — сколько писать после события started.
	RecordInterval time.Duration

	// PauseInterval — сколько стоять на паузе после события paused.
	PauseInterval time.Duration

	// Logger — логгер. По умолчанию slog.Default().
	Logger *slog.Logger
}

// Runner исполняет очередь шагов кейса.
type Runner struct {
	registry       *Registry
	recordInterval time.Duration
	pauseInterval  time.Duration
	logger         *slog.Logger
}

// New создаёт раннер.
func New(cfg Config) *Runner {
	if cfg.Registry == nil {
		cfg.Registry = DefaultRegistry()
	}
	if cfg.RecordInterval <= 0 {
		cfg.RecordInterval = DefaultRecordInterval
	}
	if cfg.PauseInterval <= 0 {
		cfg.PauseInterval = DefaultPauseInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Runner{
		registry:       cfg.Registry,
		recordInterval: cfg.RecordInterval,
		pauseInterval:  cfg.PauseInterval,
		logger:         cfg.Logger.With("component", "runner"),
	}
}

// Registry возвращает таблицу диспетчеризации.
func (r *Runner) Registry() *Registry {
	return r.registry
}

// Run исполняет очередь кейса до END.
//
// Возвращает nil, если очередь дошла до END (результат проверок — в c.Failures()).
// Возвращает ErrStalled, если контекст истёк во время ожидания. Неизвестный
// токен и опустевшая очередь ничего не выполняют и тоже ждут события.
func (r *Runner) Run(ctx context.Context, c *Case) error {
	if c.queue.Len() == 0 {
		return ErrEmptyQueue
	}

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrStalled, err)
		}

		var adv Advance
		step, ok := r.head(c)
		if !ok {
			// Голову очереди никто не снимает: продвинуть её может только
			// следующее событие рекордера, иначе кейс стоит до дедлайна.
			c.logger.Warn("do nothing", "token", headLabel(c.queue), "remaining", c.queue.Len())
			adv = AdvanceSuspend
		} else {
			tok, _ := c.queue.Pop()
			c.logger.Info("dispatch step", "token", tok.String(), "remaining", c.queue.Len())
			c.dispatched = append(c.dispatched, tok)
			telemetry.StepsDispatched.WithLabelValues(tok.String()).Inc()

			adv = step.Execute(ctx, c)
		}

		var err error
		for adv == AdvanceSuspend {
			adv, err = r.await(ctx, c)
			if err != nil {
				return err
			}
		}

		if adv == AdvanceFinish {
			return nil
		}
	}
}

// head возвращает шаг для токена в голове очереди.
// Пустая очередь и неизвестный токен шага не имеют.
func (r *Runner) head(c *Case) (Step, bool) {
	tok, ok := c.queue.Peek()
	if !ok {
		return nil, false
	}
	step, err := r.registry.Get(tok)
	if err != nil {
		return nil, false
	}
	return step, true
}

func headLabel(q *Queue) string {
	if tok, ok := q.Peek(); ok {
		return tok.String()
	}
	return "<empty>"
}

// await — точка приостановки: ждёт одно событие рекордера
// или продолжение callback-вызова.
func (r *Runner) await(ctx context.Context, c *Case) (Advance, error) {
	select {
	case <-ctx.Done():
		c.logger.Error("case stalled", "error", ctx.Err(), "remaining", domain.FormatTokens(c.queue.Remaining()))
		return AdvanceFinish, fmt.Errorf("%w: %w", ErrStalled, ctx.Err())

	case fn := <-c.wake:
		return fn(), nil

	case ev, ok := <-c.events:
		if !ok {
			c.events = nil
			return AdvanceSuspend, nil
		}
		return r.handleEvent(ctx, c, ev)
	}
}

// handleEvent решает, продолжать ли очередь после события.
func (r *Runner) handleEvent(ctx context.Context, c *Case, ev media.Event) (Advance, error) {
	if ev.Kind == media.EventError {
		c.logger.Info(fmt.Sprintf("case avRecorder.on(error) called, errMessage is %v", ev.Err))
		return AdvanceNext, nil
	}

	telemetry.StateChanges.WithLabelValues(ev.State.String()).Inc()
	c.logger.Info("state changed", "state", ev.State, "reason", ev.Reason)

	switch ev.State {
	case domain.RecorderStateIdle, domain.RecorderStatePrepared, domain.RecorderStateStopped:
		return AdvanceNext, nil

	case domain.RecorderStateStarted:
		if err := c.sleep(ctx, r.recordInterval); err != nil {
			return AdvanceFinish, fmt.Errorf("%w: %w", ErrStalled, err)
		}
		c.logger.Info("recorded", "interval", r.recordInterval)
		return AdvanceNext, nil

	case domain.RecorderStatePaused:
		if err := c.sleep(ctx, r.pauseInterval); err != nil {
			return AdvanceFinish, fmt.Errorf("%w: %w", ErrStalled, err)
		}
		return AdvanceNext, nil

	case domain.RecorderStateReleased:
		c.recorder = nil
		return AdvanceNext, nil

	case domain.RecorderStateError:
		c.logger.Warn("recorder in error state, waiting for next event")
		return AdvanceSuspend, nil

	default:
		c.logger.Info("unknown recorder state", "state", ev.State)
		return AdvanceNext, nil
	}
}
