package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/fixture"
	"github.com/laiyoufafa/multimedia-player-framework/internal/media"
	"github.com/laiyoufafa/multimedia-player-framework/internal/telemetry"
)

// CaseConfig — входные данные одного прогона.
type CaseConfig struct {
	// Recorders — фабрика рекордеров платформы.
	Recorders media.RecorderFactory

	// Camera — конвейер камеры кейса. Может быть nil для кейсов без камеры.
	Camera *fixture.Camera

	// AVConfig — конфигурация prepare (url уже указывает на файл кейса).
	AVConfig domain.AVConfig

	// PreviewSurfaceID — поверхность страницы предпросмотра.
	PreviewSurfaceID string

	// Steps — очередь токенов.
	Steps []domain.Token

	// Logger — логгер кейса. По умолчанию slog.Default().
	Logger *slog.Logger
}

// Case — контекст одного прогона.
//
// Всё состояние кейса меняется только в горутине раннера. Callback-вызовы
// платформы возвращают результат через post, а не пишут в поля напрямую.
type Case struct {
	recorders        media.RecorderFactory
	camera           *fixture.Camera
	avConfig         domain.AVConfig
	previewSurfaceID string
	logger           *slog.Logger

	queue      *Queue
	recorder   media.Recorder
	surfaceID  string
	events     <-chan media.Event
	needDone   bool
	wake       chan func() Advance
	dispatched []domain.Token
	failures   []string
}

// NewCase создаёт контекст прогона.
func NewCase(cfg CaseConfig) *Case {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Case{
		recorders:        cfg.Recorders,
		camera:           cfg.Camera,
		avConfig:         cfg.AVConfig,
		previewSurfaceID: cfg.PreviewSurfaceID,
		logger:           logger,
		queue:            NewQueue(cfg.Steps),
		wake:             make(chan func() Advance, 1),
	}
}

// Recorder возвращает текущий рекордер или nil, если он освобождён.
func (c *Case) Recorder() media.Recorder { return c.recorder }

// SurfaceID возвращает поверхность, полученную от рекордера.
func (c *Case) SurfaceID() string { return c.surfaceID }

// NeedDone возвращает true после снятия подписок.
func (c *Case) NeedDone() bool { return c.needDone }

// Queue возвращает очередь шагов.
func (c *Case) Queue() *Queue { return c.queue }

// Dispatched возвращает токены в порядке диспетчеризации.
func (c *Case) Dispatched() []domain.Token {
	out := make([]domain.Token, len(c.dispatched))
	copy(out, c.dispatched)
	return out
}

// Failures возвращает проваленные проверки.
func (c *Case) Failures() []string {
	out := make([]string, len(c.failures))
	copy(out, c.failures)
	return out
}

// Logger возвращает логгер кейса.
func (c *Case) Logger() *slog.Logger { return c.logger }

// ReleaseRecorder освобождает рекордер синхронно, если он ещё не освобождён.
func (c *Case) ReleaseRecorder(ctx context.Context) {
	if c.recorder == nil {
		return
	}
	c.logger.Info("case to release by promise")
	if err := c.recorder.Release(ctx); err != nil {
		c.failure(domain.TokenReleasePromise, err)
	}
	c.recorder.Off()
	c.recorder = nil
	c.events = nil
}

// assert записывает проваленную проверку.
func (c *Case) assert(ok bool, format string, args ...any) {
	if ok {
		return
	}
	msg := fmt.Sprintf(format, args...)
	c.logger.Error("assertion failed", "message", msg)
	c.failures = append(c.failures, msg)
}

// failure — общий обработчик неуспешного вызова платформы.
// Только логирует, очередь не прерывается.
func (c *Case) failure(tok domain.Token, err error) {
	telemetry.PlatformFailures.WithLabelValues(tok.String()).Inc()
	c.logger.Warn(fmt.Sprintf("case failureCallback called,errMessage is %v", err), "token", tok.String())
}

// catch — обработчик неожиданной ошибки внутри стратегии вызова.
func (c *Case) catch(tok domain.Token, err error) {
	telemetry.PlatformFailures.WithLabelValues(tok.String()).Inc()
	c.logger.Error(fmt.Sprintf("case catchCallback called,errMessage is %v", err), "token", tok.String())
}

// post передаёт продолжение в горутину раннера.
// Если раннер уже вышел (контекст отменён), продолжение отбрасывается.
func (c *Case) post(ctx context.Context, fn func() Advance) {
	select {
	case c.wake <- fn:
	case <-ctx.Done():
	}
}

// subscribe подписывается на события текущего рекордера.
func (c *Case) subscribe() {
	c.logger.Info("case callback on")
	c.events = c.recorder.On()
}

func (c *Case) sleep(ctx context.Context, d time.Duration) error {
	return fixture.Sleep(ctx, d)
}
