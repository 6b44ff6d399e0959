package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/fixture"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
	"github.com/laiyoufafa/multimedia-player-framework/internal/sim"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestRunner(reg *Registry) *Runner {
	return New(Config{
		Registry:       reg,
		RecordInterval: time.Millisecond,
		PauseInterval:  time.Millisecond,
		Logger:         testLogger,
	})
}

func newTestCase(t *testing.T, p *sim.Platform, steps ...domain.Token) *Case {
	t.Helper()
	cams, err := p.Cameras.SupportedCameras(context.Background())
	if err != nil {
		t.Fatalf("cameras: %v", err)
	}
	profile := domain.CameraProfile{Format: domain.CameraFormatYUV420SP, Size: domain.Size{Width: 640, Height: 480}}
	cfg := domain.DefaultAVConfig()
	cfg.URL = "fd://42"

	return NewCase(CaseConfig{
		Recorders:        p.Recorders,
		Camera:           fixture.NewCamera(p.Cameras, cams[0], profile, profile, testLogger),
		AVConfig:         cfg,
		PreviewSurfaceID: "preview-1",
		Steps:            steps,
		Logger:           testLogger,
	})
}

func runWithTimeout(t *testing.T, r *Runner, c *Case, timeout time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return r.Run(ctx, c)
}

// stubStep — тестовый шаг: выполняет fn и возвращает adv.
type stubStep struct {
	token domain.Token
	adv   Advance
	fn    func(c *Case)
}

func (s stubStep) Token() domain.Token { return s.token }

func (s stubStep) Execute(ctx context.Context, c *Case) Advance {
	if s.fn != nil {
		s.fn(c)
	}
	return s.adv
}

const (
	stubToken  domain.Token = 60
	injectToken domain.Token = 61
)

// --- Full sequence Tests ---

func TestRun_PromiseSequence(t *testing.T) {
	steps := []domain.Token{
		domain.TokenCreatePromise, domain.TokenPreparePromise, domain.TokenGetSurfacePromise,
		domain.TokenStartCamera, domain.TokenStartPromise, domain.TokenPausePromise,
		domain.TokenResumePromise, domain.TokenStopPromise, domain.TokenStopVideoOutput,
		domain.TokenResetPromise, domain.TokenSetCallbackOff, domain.TokenReleasePromise,
		domain.TokenReleaseCamera, domain.TokenEnd,
	}
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, steps...)

	if err := runWithTimeout(t, newTestRunner(nil), c, 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Failures()) != 0 {
		t.Errorf("unexpected failures: %v", c.Failures())
	}
	if got := domain.FormatTokens(c.Dispatched()); got != domain.FormatTokens(steps) {
		t.Errorf("dispatched %s, want %s", got, domain.FormatTokens(steps))
	}
	if c.Recorder() != nil {
		t.Error("recorder must be cleared after release with need done")
	}
	if !c.NeedDone() {
		t.Error("need done must be set after callback off")
	}

	rec := p.Recorders.Last()
	if rec.State() != domain.RecorderStateReleased {
		t.Errorf("expected released, got %s", rec.State())
	}
	if c.SurfaceID() == "" {
		t.Error("expected surface id")
	}
	if rec.Config() != nil {
		t.Error("reset must clear the prepared config")
	}
}

func TestRun_CallbackSequence(t *testing.T) {
	steps := []domain.Token{
		domain.TokenCreateCallback, domain.TokenPrepareCallback, domain.TokenGetSurfaceCallback,
		domain.TokenStartCamera, domain.TokenStartCallback, domain.TokenPauseCallback,
		domain.TokenResumeCallback, domain.TokenStopCallback, domain.TokenStopVideoOutput,
		domain.TokenResetCallback, domain.TokenReleaseCallback, domain.TokenReleaseCamera,
		domain.TokenEnd,
	}
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, steps...)

	if err := runWithTimeout(t, newTestRunner(nil), c, 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Failures()) != 0 {
		t.Errorf("unexpected failures: %v", c.Failures())
	}
	// Без callback off рекордер очищается по событию released.
	if c.Recorder() != nil {
		t.Error("recorder must be cleared by released event")
	}
	if c.NeedDone() {
		t.Error("need done must stay false")
	}
	if len(c.Dispatched()) != len(steps) {
		t.Errorf("expected %d dispatched, got %d", len(steps), len(c.Dispatched()))
	}
}

func TestRun_PreparesTwice(t *testing.T) {
	steps := []domain.Token{
		domain.TokenCreatePromise, domain.TokenPreparePromise, domain.TokenGetSurfacePromise,
		domain.TokenStartCamera, domain.TokenStartPromise, domain.TokenStopPromise,
		domain.TokenStopVideoOutput, domain.TokenReleaseCamera, domain.TokenPreparePromise,
		domain.TokenGetSurfacePromise, domain.TokenStartCamera, domain.TokenStartPromise,
		domain.TokenResetPromise, domain.TokenReleasePromise, domain.TokenStopVideoOutput,
		domain.TokenReleaseCamera, domain.TokenEnd,
	}
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, steps...)

	if err := runWithTimeout(t, newTestRunner(nil), c, 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(p.Cameras.Sessions()); n != 2 {
		t.Errorf("expected 2 capture sessions, got %d", n)
	}
}

// --- Timing Tests ---

func TestRun_StartedWaitsRecordInterval(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p,
		domain.TokenCreatePromise, domain.TokenPreparePromise, domain.TokenStartPromise,
		domain.TokenEnd,
	)
	r := New(Config{RecordInterval: 80 * time.Millisecond, PauseInterval: time.Millisecond, Logger: testLogger})

	start := time.Now()
	if err := runWithTimeout(t, r, c, 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected at least record interval, got %v", elapsed)
	}
}

func TestRun_PausedWaitsPauseInterval(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p,
		domain.TokenCreatePromise, domain.TokenPreparePromise, domain.TokenStartPromise,
		domain.TokenPausePromise, domain.TokenEnd,
	)
	r := New(Config{RecordInterval: time.Millisecond, PauseInterval: 80 * time.Millisecond, Logger: testLogger})

	start := time.Now()
	if err := runWithTimeout(t, r, c, 5*time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected at least pause interval, got %v", elapsed)
	}
}

// --- Queue semantics Tests ---

func TestRun_UnknownTokenStalls(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p,
		domain.TokenCreatePromise, domain.Token(99), domain.TokenSetCallbackOff,
		domain.TokenReleasePromise, domain.TokenEnd,
	)

	err := runWithTimeout(t, newTestRunner(nil), c, 100*time.Millisecond)
	if !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}

	if got := domain.FormatTokens(c.Dispatched()); got != domain.TokenCreatePromise.String() {
		t.Errorf("dispatched %s, want only create_promise", got)
	}
	want := []domain.Token{domain.Token(99), domain.TokenSetCallbackOff, domain.TokenReleasePromise, domain.TokenEnd}
	if got := domain.FormatTokens(c.Queue().Remaining()); got != domain.FormatTokens(want) {
		t.Errorf("remaining %s, want %s", got, domain.FormatTokens(want))
	}
	if st := p.Recorders.Last().State(); st != domain.RecorderStateIdle {
		t.Errorf("nothing after the unknown token may run, recorder is %s", st)
	}
}

func TestRun_UnknownTokenEventDoesNotSkip(t *testing.T) {
	reg := DefaultRegistry()
	reg.Register(stubStep{token: injectToken, adv: AdvanceNext, fn: func(c *Case) {
		c.Recorder().(*sim.Recorder).Inject(media.Event{Kind: media.EventStateChange, State: domain.RecorderStatePrepared})
	}})

	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenCreatePromise, injectToken, domain.Token(99), domain.TokenEnd)

	// Событие будит раннер, но голова очереди остаётся неизвестным токеном.
	if err := runWithTimeout(t, newTestRunner(reg), c, 100*time.Millisecond); !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
	if c.Queue().Len() != 2 {
		t.Errorf("expected unknown token and end left, got %s", domain.FormatTokens(c.Queue().Remaining()))
	}
}

func TestRun_PrintInfoConsumesOperand(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenPrintInfo, domain.TokenCreatePromise, domain.TokenEnd)

	if err := runWithTimeout(t, newTestRunner(nil), c, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Recorders.Last() != nil {
		t.Error("operand of print info must not be executed")
	}
	want := []domain.Token{domain.TokenPrintInfo, domain.TokenEnd}
	if got := domain.FormatTokens(c.Dispatched()); got != domain.FormatTokens(want) {
		t.Errorf("dispatched %s, want %s", got, domain.FormatTokens(want))
	}
}

func TestRun_EndStopsDispatch(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenEnd, domain.TokenCreatePromise, domain.TokenEnd)

	if err := runWithTimeout(t, newTestRunner(nil), c, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Recorders.Last() != nil {
		t.Error("nothing after end must run")
	}
	if c.Queue().Len() != 2 {
		t.Errorf("expected 2 tokens left, got %d", c.Queue().Len())
	}
}

func TestRun_EmptyQueue(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})

	if err := runWithTimeout(t, newTestRunner(nil), newTestCase(t, p), time.Second); !errors.Is(err, ErrEmptyQueue) {
		t.Errorf("expected ErrEmptyQueue, got %v", err)
	}
}

func TestRun_PrintInfoBeforeEndStalls(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenCreatePromise, domain.TokenPrintInfo, domain.TokenEnd)

	// print_info снимает END вместе с собой, очередь пустеет без завершения.
	if err := runWithTimeout(t, newTestRunner(nil), c, 100*time.Millisecond); !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
	if c.Queue().Len() != 0 {
		t.Errorf("expected empty queue, got %d", c.Queue().Len())
	}
	want := []domain.Token{domain.TokenCreatePromise, domain.TokenPrintInfo}
	if got := domain.FormatTokens(c.Dispatched()); got != domain.FormatTokens(want) {
		t.Errorf("dispatched %s, want %s", got, domain.FormatTokens(want))
	}
}

// --- Failure Tests ---

func TestRun_FailedCallStalls(t *testing.T) {
	p := sim.NewPlatform(sim.Config{Failures: map[string]error{"prepare": errors.New("bad config")}})
	c := newTestCase(t, p, domain.TokenCreatePromise, domain.TokenPreparePromise, domain.TokenEnd)

	err := runWithTimeout(t, newTestRunner(nil), c, 100*time.Millisecond)
	if !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline in chain, got %v", err)
	}
}

func TestRun_CreateCallbackFailureStalls(t *testing.T) {
	p := sim.NewPlatform(sim.Config{Failures: map[string]error{"create": errors.New("no memory")}})
	c := newTestCase(t, p, domain.TokenCreateCallback, domain.TokenEnd)

	if err := runWithTimeout(t, newTestRunner(nil), c, 100*time.Millisecond); !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
	if c.Recorder() != nil {
		t.Error("recorder must stay nil")
	}
}

func TestRun_CameraErrorContinues(t *testing.T) {
	p := sim.NewPlatform(sim.Config{Failures: map[string]error{"camera.input": errors.New("camera busy")}})
	c := newTestCase(t, p,
		domain.TokenCreatePromise, domain.TokenPreparePromise, domain.TokenGetSurfacePromise,
		domain.TokenStartCamera, domain.TokenStopVideoOutput, domain.TokenReleaseCamera,
		domain.TokenSetCallbackOff, domain.TokenReleasePromise, domain.TokenEnd,
	)

	if err := runWithTimeout(t, newTestRunner(nil), c, 5*time.Second); err != nil {
		t.Fatalf("camera errors must not stop the queue: %v", err)
	}
}

// stateFactory создаёт рекордер в заданном состоянии.
type stateFactory struct {
	inner *sim.RecorderFactory
	state domain.RecorderState
}

func (f stateFactory) CreateRecorder(ctx context.Context) (media.Recorder, error) {
	rec, err := f.inner.CreateRecorder(ctx)
	if err != nil {
		return nil, err
	}
	rec.(*sim.Recorder).Inject(media.Event{Kind: media.EventStateChange, State: f.state})
	return rec, nil
}

func TestRun_CreateAssertsIdle(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := NewCase(CaseConfig{
		Recorders: stateFactory{inner: p.Recorders, state: domain.RecorderStatePrepared},
		Steps:     []domain.Token{domain.TokenCreatePromise, domain.TokenEnd},
		Logger:    testLogger,
	})

	if err := runWithTimeout(t, newTestRunner(nil), c, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Failures()) != 1 {
		t.Fatalf("expected 1 failure, got %v", c.Failures())
	}
}

// --- Event handling Tests ---

func injectRegistry(events ...media.Event) *Registry {
	reg := DefaultRegistry()
	reg.Register(stubStep{token: injectToken, adv: AdvanceSuspend, fn: func(c *Case) {
		rec := c.Recorder().(*sim.Recorder)
		for _, ev := range events {
			rec.Inject(ev)
		}
	}})
	return reg
}

func TestRun_ErrorEventAdvances(t *testing.T) {
	reg := injectRegistry(media.Event{Kind: media.EventError, Err: errors.New("io error")})
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenCreatePromise, injectToken, domain.TokenEnd)

	if err := runWithTimeout(t, newTestRunner(reg), c, time.Second); err != nil {
		t.Fatalf("error event must advance: %v", err)
	}
}

func TestRun_ErrorStateKeepsWaiting(t *testing.T) {
	reg := injectRegistry(
		media.Event{Kind: media.EventStateChange, State: domain.RecorderStateError},
		media.Event{Kind: media.EventStateChange, State: domain.RecorderState("rebooting")},
	)
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenCreatePromise, injectToken, domain.TokenEnd)

	// error — ждать, неизвестное состояние — продвинуть.
	if err := runWithTimeout(t, newTestRunner(reg), c, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRun_ErrorStateAloneStalls(t *testing.T) {
	reg := injectRegistry(media.Event{Kind: media.EventStateChange, State: domain.RecorderStateError})
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenCreatePromise, injectToken, domain.TokenEnd)

	if err := runWithTimeout(t, newTestRunner(reg), c, 100*time.Millisecond); !errors.Is(err, ErrStalled) {
		t.Fatalf("expected ErrStalled, got %v", err)
	}
}

func TestRun_ReleaseNeedDoneClearsBeforeAdvance(t *testing.T) {
	var seen media.Recorder = &sim.Recorder{}
	reg := DefaultRegistry()
	reg.Register(stubStep{token: stubToken, adv: AdvanceNext, fn: func(c *Case) {
		seen = c.Recorder()
	}})

	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p,
		domain.TokenCreateCallback, domain.TokenSetCallbackOff, domain.TokenReleaseCallback,
		stubToken, domain.TokenEnd,
	)

	if err := runWithTimeout(t, newTestRunner(reg), c, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != nil {
		t.Error("recorder must be nil right after release with need done")
	}
}

func TestCase_ReleaseRecorder(t *testing.T) {
	p := sim.NewPlatform(sim.Config{})
	c := newTestCase(t, p, domain.TokenCreatePromise, domain.TokenEnd)

	if err := runWithTimeout(t, newTestRunner(nil), c, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Recorder() == nil {
		t.Fatal("recorder must be held after create")
	}

	c.ReleaseRecorder(context.Background())
	if c.Recorder() != nil {
		t.Error("recorder must be nil after release")
	}
	if p.Recorders.Last().State() != domain.RecorderStateReleased {
		t.Error("recorder must be released")
	}

	// Повторный вызов — no-op.
	c.ReleaseRecorder(context.Background())
}

// --- Registry Tests ---

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, tok := range domain.Tokens() {
		if !r.Has(tok) {
			t.Errorf("default registry should have %s", tok)
		}
	}
	if r.Count() != len(domain.Tokens()) {
		t.Errorf("expected %d steps, got %d", len(domain.Tokens()), r.Count())
	}

	if _, err := r.Get(domain.Token(99)); !errors.Is(err, ErrStepNotFound) {
		t.Errorf("expected ErrStepNotFound, got %v", err)
	}

	r.Unregister(domain.TokenPrintInfo)
	if r.Has(domain.TokenPrintInfo) {
		t.Error("should not have print_info after unregister")
	}

	tokens := r.Tokens()
	for i := 1; i < len(tokens); i++ {
		if tokens[i-1] >= tokens[i] {
			t.Fatal("tokens must be sorted")
		}
	}
}

// --- Queue Tests ---

func TestQueue(t *testing.T) {
	src := []domain.Token{domain.TokenCreatePromise, domain.TokenEnd}
	q := NewQueue(src)
	src[0] = domain.TokenPrintInfo

	if tok, _ := q.Peek(); tok != domain.TokenCreatePromise {
		t.Error("queue must copy its input")
	}
	if tok, ok := q.Pop(); !ok || tok != domain.TokenCreatePromise {
		t.Errorf("unexpected pop %v", tok)
	}
	if q.Len() != 1 || len(q.Remaining()) != 1 {
		t.Errorf("expected 1 remaining, got %d", q.Len())
	}
	q.Clear()
	if _, ok := q.Pop(); ok {
		t.Error("expected empty queue")
	}
}
