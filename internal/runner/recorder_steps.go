package runner

import (
	"context"
	"errors"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
)

// errNoRecorder — шаг рекордера после его освобождения.
var errNoRecorder = errors.New("recorder is not created or already released")

// endStep завершает прогон.
type endStep struct{}

func (endStep) Token() domain.Token { return domain.TokenEnd }

func (endStep) Execute(ctx context.Context, c *Case) Advance {
	c.logger.Info("case to END")
	return AdvanceFinish
}

// createStep создаёт рекордер, проверяет состояние idle и подписывается на события.
type createStep struct {
	token domain.Token
	mode  media.Mode
}

func (s createStep) Token() domain.Token { return s.token }

func (s createStep) Execute(ctx context.Context, c *Case) Advance {
	c.logger.Info("create recorder", "mode", s.mode)

	var rec media.Recorder
	media.NewInvoker(s.mode).Invoke(ctx, func(ctx context.Context) error {
		r, err := c.recorders.CreateRecorder(ctx)
		rec = r
		return err
	}, func(err error) {
		if err != nil {
			c.failure(s.token, err)
			return
		}
		c.post(ctx, func() Advance {
			if rec == nil {
				c.assert(false, "create recorder by %s returned no recorder", s.mode)
				return AdvanceFinish
			}
			c.recorder = rec
			state := rec.State()
			c.logger.Info("recorder created", "mode", s.mode, "state", state)
			c.assert(state == domain.RecorderStateIdle, "expected recorder state idle after create, got %s", state)
			c.subscribe()
			return AdvanceNext
		})
	}, func(err error) {
		c.catch(s.token, err)
	})

	return AdvanceSuspend
}

// getSurfaceStep получает входную поверхность рекордера для видеовыхода камеры.
type getSurfaceStep struct {
	token domain.Token
	mode  media.Mode
}

func (s getSurfaceStep) Token() domain.Token { return s.token }

func (s getSurfaceStep) Execute(ctx context.Context, c *Case) Advance {
	c.logger.Info("get input surface", "mode", s.mode)

	rec := c.recorder
	if rec == nil {
		c.catch(s.token, errNoRecorder)
		return AdvanceSuspend
	}

	var surfaceID string
	media.NewInvoker(s.mode).Invoke(ctx, func(ctx context.Context) error {
		id, err := rec.GetInputSurface(ctx)
		surfaceID = id
		return err
	}, func(err error) {
		if err != nil {
			c.failure(s.token, err)
			return
		}
		c.post(ctx, func() Advance {
			c.surfaceID = surfaceID
			c.logger.Info("input surface received", "mode", s.mode, "surface_id", surfaceID)
			return AdvanceNext
		})
	}, func(err error) {
		c.catch(s.token, err)
	})

	return AdvanceSuspend
}

// stateStep — вызов, завершение которого наблюдается по событию смены состояния.
type stateStep struct {
	token domain.Token
	mode  media.Mode
	name  string
	call  func(ctx context.Context, rec media.Recorder, cfg domain.AVConfig) error
}

func (s stateStep) Token() domain.Token { return s.token }

func (s stateStep) Execute(ctx context.Context, c *Case) Advance {
	c.logger.Info("recorder call", "op", s.name, "mode", s.mode)

	rec := c.recorder
	if rec == nil {
		c.catch(s.token, errNoRecorder)
		return AdvanceSuspend
	}
	cfg := c.avConfig.Clone()

	media.NewInvoker(s.mode).Invoke(ctx, func(ctx context.Context) error {
		return s.call(ctx, rec, cfg)
	}, func(err error) {
		if err != nil {
			c.failure(s.token, err)
			return
		}
		c.logger.Debug("recorder call returned", "op", s.name, "mode", s.mode)
	}, func(err error) {
		c.catch(s.token, err)
	})

	return AdvanceSuspend
}

func stateSteps() []Step {
	type op struct {
		name     string
		promise  domain.Token
		callback domain.Token
		call     func(ctx context.Context, rec media.Recorder, cfg domain.AVConfig) error
	}

	ops := []op{
		{"prepare", domain.TokenPreparePromise, domain.TokenPrepareCallback,
			func(ctx context.Context, rec media.Recorder, cfg domain.AVConfig) error { return rec.Prepare(ctx, cfg) }},
		{"start", domain.TokenStartPromise, domain.TokenStartCallback,
			func(ctx context.Context, rec media.Recorder, _ domain.AVConfig) error { return rec.Start(ctx) }},
		{"pause", domain.TokenPausePromise, domain.TokenPauseCallback,
			func(ctx context.Context, rec media.Recorder, _ domain.AVConfig) error { return rec.Pause(ctx) }},
		{"resume", domain.TokenResumePromise, domain.TokenResumeCallback,
			func(ctx context.Context, rec media.Recorder, _ domain.AVConfig) error { return rec.Resume(ctx) }},
		{"stop", domain.TokenStopPromise, domain.TokenStopCallback,
			func(ctx context.Context, rec media.Recorder, _ domain.AVConfig) error { return rec.Stop(ctx) }},
		{"reset", domain.TokenResetPromise, domain.TokenResetCallback,
			func(ctx context.Context, rec media.Recorder, _ domain.AVConfig) error { return rec.Reset(ctx) }},
	}

	steps := make([]Step, 0, len(ops)*2)
	for _, o := range ops {
		steps = append(steps,
			stateStep{token: o.promise, mode: media.ModePromise, name: o.name, call: o.call},
			stateStep{token: o.callback, mode: media.ModeCallback, name: o.name, call: o.call},
		)
	}
	return steps
}

// releaseStep освобождает рекордер.
//
// После снятия подписок события released не будет, поэтому при needDone
// рекордер забывается сразу и раннер идёт дальше без ожидания.
type releaseStep struct {
	token domain.Token
	mode  media.Mode
}

func (s releaseStep) Token() domain.Token { return s.token }

func (s releaseStep) Execute(ctx context.Context, c *Case) Advance {
	c.logger.Info("release recorder", "mode", s.mode, "need_done", c.needDone)

	if rec := c.recorder; rec != nil {
		media.NewInvoker(s.mode).Invoke(ctx, func(ctx context.Context) error {
			return rec.Release(ctx)
		}, func(err error) {
			if err != nil {
				c.failure(s.token, err)
			}
		}, func(err error) {
			c.catch(s.token, err)
		})
	}

	if c.needDone {
		c.recorder = nil
		return AdvanceNext
	}
	return AdvanceSuspend
}

// callbackOffStep снимает подписки на события рекордера.
type callbackOffStep struct{}

func (callbackOffStep) Token() domain.Token { return domain.TokenSetCallbackOff }

func (callbackOffStep) Execute(ctx context.Context, c *Case) Advance {
	if c.recorder != nil {
		c.recorder.Off()
		c.events = nil
	}
	c.needDone = true
	c.logger.Info("case callback off done")
	return AdvanceNext
}

// printInfoStep печатает следующий элемент очереди и снимает его.
type printInfoStep struct{}

func (printInfoStep) Token() domain.Token { return domain.TokenPrintInfo }

func (printInfoStep) Execute(ctx context.Context, c *Case) Advance {
	next, ok := c.queue.Pop()
	if !ok {
		c.logger.Info("print info", "next", "<empty>")
		return AdvanceNext
	}
	c.logger.Info("print info", "next", next.String())
	return AdvanceNext
}
