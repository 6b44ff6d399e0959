package api

import (
	"context"
	"log/slog"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
	"github.com/laiyoufafa/multimedia-player-framework/internal/repo"
)

// RunSubmitter ставит прогоны в очередь. Реализация — *orchestrator.Orchestrator.
type RunSubmitter interface {
	Submit(ctx context.Context, tc domain.TestCase) (*domain.CaseRun, error)
	SubmitNumber(ctx context.Context, number int) (*domain.CaseRun, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	store  repo.CaseRunStore
	runs   RunSubmitter
	logger *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Store  repo.CaseRunStore
	Runs   RunSubmitter
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  cfg.Store,
		runs:   cfg.Runs,
		logger: logger,
	}
}
