package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/mq"
	"github.com/laiyoufafa/multimedia-player-framework/internal/repo"
	"github.com/laiyoufafa/multimedia-player-framework/internal/suite"
)

// Default configuration values.
const (
	defaultPollInterval = 10 * time.Second
	defaultBatchSize    = 100
	defaultQueueSize    = 64
	persistTimeout      = 5 * time.Second
)

// Executor выполняет один прогон. Реализация — *suite.Suite.
type Executor interface {
	RunCase(ctx context.Context, run *domain.CaseRun, tc domain.TestCase) error
}

// EventPublisher публикует события прогонов. Реализация — *mq.Publisher.
type EventPublisher interface {
	PublishCaseStarted(ctx context.Context, run *domain.CaseRun) error
	PublishCaseCompleted(ctx context.Context, run *domain.CaseRun) error
}

// CaseResolver находит кейс каталога по номеру.
type CaseResolver func(number int) (domain.TestCase, error)

// Orchestrator выполняет прогоны кейсов.
//
// Orchestrator:
//   - Сохраняет каждую заявку как PENDING
//   - Выполняет прогоны последовательно в одной горутине
//   - Получает заявки из RabbitMQ (event-driven), если задано соединение
//   - Периодически подхватывает PENDING прогоны из хранилища (polling fallback)
//   - Публикует case.started и case.completed
type Orchestrator struct {
	store     repo.CaseRunStore
	executor  Executor
	resolve   CaseResolver
	publisher EventPublisher
	conn      *mq.Connection

	// Прогоны в очереди или в работе: runID → номер кейса.
	activeRuns map[uuid.UUID]int
	mu         sync.RWMutex

	jobs chan job

	requestConsumer *mq.Consumer

	pollInterval time.Duration
	batchSize    int

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

type job struct {
	run *domain.CaseRun
	tc  domain.TestCase
}

// Config — конфигурация Orchestrator.
type Config struct {
	Store    repo.CaseRunStore
	Executor Executor

	// Cases — поиск кейса по номеру (default: suite.Find).
	Cases CaseResolver

	// Publisher и Conn необязательны: без них оркестратор работает без RabbitMQ.
	Publisher EventPublisher
	Conn      *mq.Connection

	PollInterval time.Duration // интервал polling (default: 10s)
	BatchSize    int           // прогонов за один poll (default: 100)
	QueueSize    int           // ёмкость очереди заявок (default: 64)

	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	resolve := cfg.Cases
	if resolve == nil {
		resolve = suite.Find
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		store:        cfg.Store,
		executor:     cfg.Executor,
		resolve:      resolve,
		publisher:    cfg.Publisher,
		conn:         cfg.Conn,
		activeRuns:   make(map[uuid.UUID]int),
		jobs:         make(chan job, queueSize),
		pollInterval: pollInterval,
		batchSize:    batchSize,
		logger:       logger.With("component", "orchestrator"),
	}
}

// Start запускает Orchestrator.
//
// Запускает:
//   - Горутину выполнения прогонов
//   - Consumer для cases.requested (если есть соединение)
//   - Polling горутину для fallback
func (o *Orchestrator) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	o.cancelFunc = cancel

	o.logger.Info("starting orchestrator",
		"poll_interval", o.pollInterval,
		"batch_size", o.batchSize,
		"mq", o.conn != nil,
	)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.workLoop(ctx)
	}()

	if o.conn != nil {
		o.requestConsumer = mq.NewConsumer(o.conn, o.logger, mq.ConsumerConfig{
			Queue:    string(mq.QueueCasesRequested),
			Handler:  o.handleCaseRequested,
			Prefetch: 10,
		})

		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			if err := o.requestConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				o.logger.Error("request consumer error", "error", err)
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.pollLoop(ctx)
	}()

	o.logger.Info("orchestrator started")
	return nil
}

// Stop останавливает Orchestrator и ждёт текущий прогон.
func (o *Orchestrator) Stop() {
	o.stoppedMu.Lock()
	o.stopped = true
	o.stoppedMu.Unlock()

	o.logger.Info("stopping orchestrator...")

	if o.cancelFunc != nil {
		o.cancelFunc()
	}
	if o.requestConsumer != nil {
		o.requestConsumer.Stop()
	}

	o.wg.Wait()

	o.logger.Info("orchestrator stopped",
		"active_runs", o.ActiveRunsCount(),
	)
}

// IsStopped проверяет, остановлен ли Orchestrator.
func (o *Orchestrator) IsStopped() bool {
	o.stoppedMu.RLock()
	defer o.stoppedMu.RUnlock()
	return o.stopped
}

// pollLoop — цикл polling для fallback.
func (o *Orchestrator) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	// Первый poll сразу: подхватываем прогоны, созданные до рестарта.
	o.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.poll(ctx)
		}
	}
}

// poll ставит в очередь PENDING прогоны, которых ещё нет в работе.
func (o *Orchestrator) poll(ctx context.Context) {
	runs, err := o.store.ListPending(ctx, o.batchSize)
	if err != nil {
		o.logger.Error("failed to list pending runs", "error", err)
		return
	}
	if len(runs) == 0 {
		return
	}

	o.logger.Debug("poll found pending runs", "count", len(runs))

	for i := range runs {
		run := &runs[i]
		if o.isRunActive(run.ID) {
			continue
		}

		tc, err := o.resolve(run.CaseNumber)
		if err != nil {
			o.abandon(ctx, run, err)
			continue
		}
		if err := o.enqueue(run, tc); err != nil {
			o.logger.Debug("pending run not queued", "run_id", run.ID, "error", err)
		}
	}
}

// abandon помечает прогон, который нельзя выполнить, как FAILED.
func (o *Orchestrator) abandon(ctx context.Context, run *domain.CaseRun, cause error) {
	o.logger.Warn("abandoning pending run",
		"run_id", run.ID,
		"case_number", run.CaseNumber,
		"error", cause,
	)
	run.MarkFailed(errors.Join(ErrNotRecoverable, cause).Error())
	if err := o.store.Update(ctx, run); err != nil {
		o.logger.Error("failed to update abandoned run", "run_id", run.ID, "error", err)
	}
}

// isRunActive проверяет, находится ли прогон в очереди или в работе.
func (o *Orchestrator) isRunActive(runID uuid.UUID) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, exists := o.activeRuns[runID]
	return exists
}

// addActiveRun добавляет прогон в активные.
func (o *Orchestrator) addActiveRun(run *domain.CaseRun) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, exists := o.activeRuns[run.ID]; exists {
		return ErrRunAlreadyActive
	}
	o.activeRuns[run.ID] = run.CaseNumber
	return nil
}

// removeActiveRun удаляет прогон из активных.
func (o *Orchestrator) removeActiveRun(runID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.activeRuns, runID)
}

// ActiveRunsCount возвращает количество прогонов в очереди и в работе.
func (o *Orchestrator) ActiveRunsCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.activeRuns)
}
