package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// DefaultTickInterval — как часто Run проверяет расписание.
const DefaultTickInterval = time.Second

// Submitter ставит прогоны в очередь. Реализация — *orchestrator.Orchestrator.
type Submitter interface {
	SubmitNumber(ctx context.Context, number int) (*domain.CaseRun, error)
	SubmitAll(ctx context.Context) ([]*domain.CaseRun, error)
}

// Scheduler запускает кейсы по cron-расписанию.
type Scheduler struct {
	submitter Submitter
	schedule  cron.Schedule
	loc       *time.Location
	spec      Spec
	logger    *slog.Logger
	tick      time.Duration

	nextDue time.Time
}

// Config — конфигурация Scheduler.
type Config struct {
	Spec         Spec
	Submitter    Submitter
	Logger       *slog.Logger
	TickInterval time.Duration // default: 1s
}

// New создаёт Scheduler. Первый запуск — ближайшее время по расписанию.
func New(cfg Config) (*Scheduler, error) {
	schedule, err := ParseExpr(cfg.Spec.Expr)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultTickInterval
	}

	loc := loadLocation(cfg.Spec.Timezone)
	return &Scheduler{
		submitter: cfg.Submitter,
		schedule:  schedule,
		loc:       loc,
		spec:      cfg.Spec,
		logger:    logger.With("component", "scheduler"),
		tick:      tick,
		nextDue:   NextDue(schedule, loc, time.Now()),
	}, nil
}

// NextDueAt возвращает время следующего запуска (UTC).
func (s *Scheduler) NextDueAt() time.Time {
	return s.nextDue
}

// Run вызывает Tick до отмены контекста.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"expr", s.spec.Expr,
		"timezone", s.loc.String(),
		"next_due_at", s.nextDue,
	)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case now := <-ticker.C:
			if _, err := s.Tick(ctx, now); err != nil {
				s.logger.Error("scheduler tick failed", "error", err)
			}
		}
	}
}

// Tick ставит кейсы в очередь, если наступило время запуска.
//
// Пропущенные за время простоя запуски не догоняются: следующее время
// считается от now. Ошибка одного кейса не мешает остальным.
// Возвращает число поставленных прогонов.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (int, error) {
	if now.Before(s.nextDue) {
		return 0, nil
	}

	due := s.nextDue
	s.nextDue = NextDue(s.schedule, s.loc, now)

	created, err := s.submit(ctx)

	s.logger.Info("scheduler tick completed",
		"due_at", due,
		"runs_created", created,
		"next_due_at", s.nextDue,
	)
	return created, err
}

func (s *Scheduler) submit(ctx context.Context) (int, error) {
	if len(s.spec.Cases) == 0 {
		runs, err := s.submitter.SubmitAll(ctx)
		if err != nil {
			return len(runs), fmt.Errorf("submit catalog: %w", err)
		}
		return len(runs), nil
	}

	var created int
	var firstErr error
	for _, number := range s.spec.Cases {
		if _, err := s.submitter.SubmitNumber(ctx, number); err != nil {
			s.logger.Error("failed to submit scheduled case",
				"case_number", number,
				"error", err,
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("submit case %d: %w", number, err)
			}
			continue
		}
		created++
	}
	return created, firstErr
}
