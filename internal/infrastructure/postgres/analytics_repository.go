package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de agregación para métricas documentales.
// Solo lectura, siempre sobre el pool (no participa en transacciones).
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// CountByStatus conteo de documentos agrupado por estado.
func (r *AnalyticsRepo) CountByStatus(ctx context.Context) ([]repository.StatusCountResult, error) {
	query := `SELECT status, COUNT(*) FROM documents GROUP BY status ORDER BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()
	var out []repository.StatusCountResult
	for rows.Next() {
		var res repository.StatusCountResult
		if err := rows.Scan(&res.Status, &res.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// CountByType conteo de documentos agrupado por tipo.
func (r *AnalyticsRepo) CountByType(ctx context.Context) ([]repository.TypeCountResult, error) {
	query := `SELECT document_type, COUNT(*) FROM documents GROUP BY document_type ORDER BY document_type`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()
	var out []repository.TypeCountResult
	for rows.Next() {
		var res repository.TypeCountResult
		if err := rows.Scan(&res.DocumentType, &res.Count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ApprovalRate porcentaje de documentos revisados que terminaron Approved,
// a dos decimales. NUMERIC llega como decimal.Decimal por el codec del pool.
func (r *AnalyticsRepo) ApprovalRate(ctx context.Context) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(
			ROUND(100.0 * COUNT(*) FILTER (WHERE status = $1) / NULLIF(COUNT(*), 0), 2),
			0
		)
		FROM documents
		WHERE status IN ($1, $2)`
	var rate decimal.Decimal
	err := r.pool.QueryRow(ctx, query, entity.DocStatusApproved, entity.DocStatusRejected).Scan(&rate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("approval rate: %w", err)
	}
	return rate, nil
}
