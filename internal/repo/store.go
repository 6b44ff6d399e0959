package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// CaseRunStore — хранилище прогонов кейсов.
//
// Реализации: CaseRunRepo (PostgreSQL) и MemoryStore (без БД).
type CaseRunStore interface {
	Create(ctx context.Context, run *domain.CaseRun) error
	Update(ctx context.Context, run *domain.CaseRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseRun, error)
	List(ctx context.Context, filter CaseRunFilter) ([]domain.CaseRun, error)
	ListPending(ctx context.Context, limit int) ([]domain.CaseRun, error)
}

// DefaultListLimit — размер страницы, если Limit не задан.
const DefaultListLimit = 50

// CaseRunFilter — параметры фильтрации прогонов.
type CaseRunFilter struct {
	CaseNumber *int
	Status     domain.CaseStatus
	Limit      int
	Offset     int
}

func (f CaseRunFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}
