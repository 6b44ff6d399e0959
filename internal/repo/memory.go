package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// MemoryStore — хранилище прогонов в памяти процесса.
// Используется, когда БД недоступна, и в тестах.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]domain.CaseRun
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[uuid.UUID]domain.CaseRun)}
}

func (s *MemoryStore) Create(ctx context.Context, run *domain.CaseRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return ErrAlreadyExists
	}
	s.runs[run.ID] = cloneRun(*run)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, run *domain.CaseRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; !exists {
		return ErrNotFound
	}
	s.runs[run.ID] = cloneRun(*run)
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, exists := s.runs[id]
	if !exists {
		return nil, ErrNotFound
	}
	out := cloneRun(run)
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context, filter CaseRunFilter) ([]domain.CaseRun, error) {
	runs := s.filter(func(r domain.CaseRun) bool {
		if filter.CaseNumber != nil && r.CaseNumber != *filter.CaseNumber {
			return false
		}
		return filter.Status == "" || r.Status == filter.Status
	})
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.After(runs[j].CreatedAt) })
	return page(runs, filter.Offset, filter.limit()), nil
}

func (s *MemoryStore) ListPending(ctx context.Context, limit int) ([]domain.CaseRun, error) {
	runs := s.filter(func(r domain.CaseRun) bool { return r.Status == domain.CaseStatusPending })
	sort.Slice(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })
	return page(runs, 0, limit), nil
}

func (s *MemoryStore) filter(keep func(domain.CaseRun) bool) []domain.CaseRun {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.CaseRun
	for _, r := range s.runs {
		if keep(r) {
			out = append(out, cloneRun(r))
		}
	}
	return out
}

func page(runs []domain.CaseRun, offset, limit int) []domain.CaseRun {
	if offset >= len(runs) {
		return nil
	}
	runs = runs[offset:]
	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs
}

func cloneRun(r domain.CaseRun) domain.CaseRun {
	r.Dispatched = append([]domain.Token(nil), r.Dispatched...)
	r.Failures = append([]string(nil), r.Failures...)
	return r
}
