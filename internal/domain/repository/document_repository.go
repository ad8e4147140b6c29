package repository

import (
	"context"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia para Document.
// GetByID devuelve (nil, nil) si el documento no existe.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// UpdateStatus cambia el status y refresca updated_at.
	UpdateStatus(ctx context.Context, id, status string) error
	// UpdateCategory fija la categoría asignada por el clasificador.
	UpdateCategory(ctx context.Context, id, category string) error
	// ListPending devuelve los Pending ordenados por uploaded_at ascendente (revisión FIFO).
	ListPending(ctx context.Context) ([]*entity.Document, error)
	ListByUploader(ctx context.Context, userID string) ([]*entity.Document, error)
	ListAll(ctx context.Context) ([]*entity.Document, error)
	Delete(ctx context.Context, id string) error
}
