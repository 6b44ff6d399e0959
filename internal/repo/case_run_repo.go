package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/laiyoufafa/multimedia-player-framework/internal/domain"
)

// CaseRunRepo — хранилище прогонов в PostgreSQL.
type CaseRunRepo struct {
	pool *pgxpool.Pool
}

// NewCaseRunRepo создаёт новый CaseRunRepo.
func NewCaseRunRepo(pool *pgxpool.Pool) *CaseRunRepo {
	return &CaseRunRepo{pool: pool}
}

const caseRunColumns = `id, case_number, case_name, status, dispatched, failures, file_name,
		       started_at, finished_at, error, created_at`

// Create сохраняет новый прогон.
func (r *CaseRunRepo) Create(ctx context.Context, run *domain.CaseRun) error {
	dispatched, failures, err := marshalLists(run)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO case_runs (id, case_number, case_name, status, dispatched, failures, file_name,
		                       started_at, finished_at, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.pool.Exec(ctx, query,
		run.ID,
		run.CaseNumber,
		run.CaseName,
		run.Status,
		dispatched,
		failures,
		nullString(run.FileName),
		run.StartedAt,
		run.FinishedAt,
		nullString(run.Error),
		run.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert case run: %w", err)
	}
	return nil
}

// Update сохраняет статус и результаты прогона.
func (r *CaseRunRepo) Update(ctx context.Context, run *domain.CaseRun) error {
	dispatched, failures, err := marshalLists(run)
	if err != nil {
		return err
	}

	query := `
		UPDATE case_runs
		SET status = $2, dispatched = $3, failures = $4, file_name = $5,
		    started_at = $6, finished_at = $7, error = $8
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Status,
		dispatched,
		failures,
		nullString(run.FileName),
		run.StartedAt,
		run.FinishedAt,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("update case run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID возвращает прогон по ID.
func (r *CaseRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseRun, error) {
	query := `SELECT ` + caseRunColumns + ` FROM case_runs WHERE id = $1`

	run, err := scanCaseRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return run, err
}

// List возвращает прогоны, новые первыми.
func (r *CaseRunRepo) List(ctx context.Context, filter CaseRunFilter) ([]domain.CaseRun, error) {
	query := `
		SELECT ` + caseRunColumns + `
		FROM case_runs
		WHERE ($1::int IS NULL OR case_number = $1)
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		filter.CaseNumber,
		nullString(string(filter.Status)),
		filter.limit(),
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list case runs: %w", err)
	}
	return collectCaseRuns(rows)
}

// ListPending возвращает прогоны в статусе PENDING, старые первыми.
func (r *CaseRunRepo) ListPending(ctx context.Context, limit int) ([]domain.CaseRun, error) {
	query := `
		SELECT ` + caseRunColumns + `
		FROM case_runs
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending case runs: %w", err)
	}
	return collectCaseRuns(rows)
}

// --- Helpers ---

func collectCaseRuns(rows pgx.Rows) ([]domain.CaseRun, error) {
	defer rows.Close()

	var runs []domain.CaseRun
	for rows.Next() {
		run, err := scanCaseRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// scanCaseRun сканирует одну строку в CaseRun.
// pgx.Row покрывает и QueryRow, и Rows.
func scanCaseRun(row pgx.Row) (*domain.CaseRun, error) {
	var run domain.CaseRun
	var dispatchedJSON, failuresJSON []byte
	var fileName, runError *string

	err := row.Scan(
		&run.ID,
		&run.CaseNumber,
		&run.CaseName,
		&run.Status,
		&dispatchedJSON,
		&failuresJSON,
		&fileName,
		&run.StartedAt,
		&run.FinishedAt,
		&runError,
		&run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan case run: %w", err)
	}

	if dispatchedJSON != nil {
		if err := json.Unmarshal(dispatchedJSON, &run.Dispatched); err != nil {
			return nil, fmt.Errorf("unmarshal dispatched: %w", err)
		}
	}
	if failuresJSON != nil {
		if err := json.Unmarshal(failuresJSON, &run.Failures); err != nil {
			return nil, fmt.Errorf("unmarshal failures: %w", err)
		}
	}
	if fileName != nil {
		run.FileName = *fileName
	}
	if runError != nil {
		run.Error = *runError
	}

	return &run, nil
}

func marshalLists(run *domain.CaseRun) ([]byte, []byte, error) {
	dispatched, err := json.Marshal(run.Dispatched)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal dispatched: %w", err)
	}
	failures, err := json.Marshal(run.Failures)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal failures: %w", err)
	}
	return dispatched, failures, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
