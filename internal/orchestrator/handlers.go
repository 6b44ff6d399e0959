package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/mq"
	"github.com/laiyoufafa/multimedia-player-framework/internal/suite"
)

// Submit сохраняет новый прогон кейса и ставит его в очередь.
//
// Возвращает снимок прогона в статусе PENDING. Если очередь заполнена,
// прогон всё равно сохранён и будет подхвачен polling.
func (o *Orchestrator) Submit(ctx context.Context, tc domain.TestCase) (*domain.CaseRun, error) {
	if o.IsStopped() {
		return nil, ErrOrchestratorStopped
	}
	if len(tc.Steps) == 0 {
		return nil, fmt.Errorf("case %d has no steps", tc.Number)
	}

	run := domain.NewCaseRun(tc)
	if err := o.store.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create case run: %w", err)
	}
	snapshot := *run

	if err := o.enqueue(run, tc); err != nil {
		o.logger.Warn("run deferred to poll", "run_id", run.ID, "error", err)
	}

	o.logger.Info("case run submitted",
		"run_id", run.ID,
		"case_number", tc.Number,
		"case_name", tc.Name,
	)
	return &snapshot, nil
}

// SubmitNumber ставит в очередь кейс каталога по номеру.
func (o *Orchestrator) SubmitNumber(ctx context.Context, number int) (*domain.CaseRun, error) {
	tc, err := o.resolve(number)
	if err != nil {
		return nil, err
	}
	return o.Submit(ctx, tc)
}

// SubmitAll ставит в очередь все кейсы каталога по порядку.
func (o *Orchestrator) SubmitAll(ctx context.Context) ([]*domain.CaseRun, error) {
	var runs []*domain.CaseRun
	for _, tc := range suite.Catalog() {
		run, err := o.Submit(ctx, tc)
		if err != nil {
			return runs, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// enqueue помечает прогон активным и кладёт его в очередь без блокировки.
func (o *Orchestrator) enqueue(run *domain.CaseRun, tc domain.TestCase) error {
	if err := o.addActiveRun(run); err != nil {
		return err
	}

	select {
	case o.jobs <- job{run: run, tc: tc}:
		return nil
	default:
		o.removeActiveRun(run.ID)
		return ErrQueueFull
	}
}

// workLoop выполняет прогоны строго по одному.
func (o *Orchestrator) workLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-o.jobs:
			o.execute(ctx, j)
		}
	}
}

// execute выполняет прогон и сохраняет результат.
func (o *Orchestrator) execute(ctx context.Context, j job) {
	run := j.run
	defer o.removeActiveRun(run.ID)

	logger := o.logger.With("run_id", run.ID, "case_number", run.CaseNumber)

	run.MarkRunning()
	o.persist(ctx, run)
	if o.publisher != nil {
		if err := o.publisher.PublishCaseStarted(ctx, run); err != nil {
			logger.Warn("failed to publish case.started", "error", err)
		}
	}

	if err := o.executor.RunCase(ctx, run, j.tc); err != nil {
		logger.Error("case environment failed", "error", err)
	}
	if !run.IsFinished() {
		run.MarkFailed("case run interrupted")
	}

	// Результат сохраняем даже при остановке оркестратора.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()

	o.persist(saveCtx, run)
	if o.publisher != nil {
		if err := o.publisher.PublishCaseCompleted(saveCtx, run); err != nil {
			logger.Warn("failed to publish case.completed", "error", err)
		}
	}

	logger.Info("case run completed",
		"status", run.Status,
		"duration", run.Duration(),
	)
}

func (o *Orchestrator) persist(ctx context.Context, run *domain.CaseRun) {
	if err := o.store.Update(ctx, run); err != nil {
		o.logger.Error("failed to update case run",
			"run_id", run.ID,
			"status", run.Status,
			"error", err,
		)
	}
}

// handleCaseRequested обрабатывает заявку из очереди cases.requested.
func (o *Orchestrator) handleCaseRequested(ctx context.Context, delivery *mq.Delivery) error {
	if delivery.Message.Type != mq.MessageTypeCaseRequested {
		o.logger.Error("unexpected message in case requests queue", "type", delivery.Message.Type, "message_id", delivery.Message.ID)
		return fmt.Errorf("%w: %w: %s", mq.ErrReject, ErrUnexpectedMessage, delivery.Message.Type)
	}

	payload, err := mq.ParsePayload[mq.CaseRequestedPayload](&delivery.Message)
	if err != nil {
		o.logger.Error("failed to parse case.requested payload", "error", err)
		return fmt.Errorf("%w: %v", mq.ErrReject, err)
	}

	o.logger.Debug("received case.requested event", "case_number", payload.CaseNumber)

	if _, err := o.SubmitNumber(ctx, payload.CaseNumber); err != nil {
		if errors.Is(err, suite.ErrCaseNotFound) {
			return fmt.Errorf("%w: %v", mq.ErrReject, err)
		}
		return err
	}
	return nil
}
