package repository

import (
	"context"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// WorkflowRepository define el puerto de persistencia para Workflow.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *entity.Workflow) error
	GetByID(ctx context.Context, id string) (*entity.Workflow, error)
	Update(ctx context.Context, wf *entity.Workflow) error
	ListAll(ctx context.Context) ([]*entity.Workflow, error)
	ListByDocument(ctx context.Context, documentID string) ([]*entity.Workflow, error)
	ListByAssignee(ctx context.Context, userID string) ([]*entity.Workflow, error)
	Delete(ctx context.Context, id string) error
	// DeleteByDocument elimina todos los workflows del documento (cascada).
	DeleteByDocument(ctx context.Context, documentID string) error
}
