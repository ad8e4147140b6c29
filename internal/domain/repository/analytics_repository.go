package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// StatusCountResult conteo de documentos agrupado por estado.
type StatusCountResult struct {
	Status string
	Count  int64
}

// TypeCountResult conteo de documentos agrupado por tipo.
type TypeCountResult struct {
	DocumentType string
	Count        int64
}

// AnalyticsRepository consultas de solo lectura para analítica documental.
type AnalyticsRepository interface {
	CountByStatus(ctx context.Context) ([]StatusCountResult, error)
	CountByType(ctx context.Context) ([]TypeCountResult, error)
	// ApprovalRate devuelve el porcentaje de documentos revisados (Approved o
	// Rejected) que terminaron Approved, redondeado a dos decimales.
	// Devuelve cero si aún no hay documentos revisados.
	ApprovalRate(ctx context.Context) (decimal.Decimal, error)
}
