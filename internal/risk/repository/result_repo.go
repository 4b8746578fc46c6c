package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendorwatch/risk-backend/internal/risk/domain"
)

// ResultRepository persists batch runs and their per-vendor results.
//
// Schema:
//
//	CREATE TABLE risk_runs (
//	    id         uuid PRIMARY KEY,
//	    created_at timestamptz NOT NULL DEFAULT now()
//	);
//	CREATE TABLE risk_vendor_results (
//	    run_id      uuid NOT NULL REFERENCES risk_runs(id),
//	    position    int  NOT NULL,
//	    vendor_name text NOT NULL,
//	    risk_level  text NOT NULL,
//	    total_score double precision NOT NULL,
//	    result      jsonb NOT NULL,
//	    PRIMARY KEY (run_id, position)
//	);
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// SaveBatch stores a finished batch run with its results in input order.
func (r *ResultRepository) SaveBatch(ctx context.Context, batch domain.BatchResult) error {
	if r == nil || r.pool == nil {
		return fmt.Errorf("pgx pool is nil")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO risk_runs (id) VALUES ($1)`, batch.RunID); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	sql := `
INSERT INTO risk_vendor_results (run_id, position, vendor_name, risk_level, total_score, result)
VALUES ($1, $2, $3, $4, $5, $6::jsonb)
`
	for i, res := range batch.Results {
		body, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshal result %d: %w", i, err)
		}
		if _, err := tx.Exec(ctx, sql, batch.RunID, i, res.Vendor.Name, string(res.RiskLevel), res.TotalScore, body); err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetBatch loads a stored run in its original vendor order.
func (r *ResultRepository) GetBatch(ctx context.Context, runID string) (*domain.BatchResult, error) {
	if r == nil || r.pool == nil {
		return nil, fmt.Errorf("pgx pool is nil")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT true FROM risk_runs WHERE id = $1`, runID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select run: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT result FROM risk_vendor_results WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	defer rows.Close()

	batch := &domain.BatchResult{RunID: runID}
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var res domain.VendorResult
		if err := json.Unmarshal(body, &res); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		batch.Results = append(batch.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return batch, nil
}
