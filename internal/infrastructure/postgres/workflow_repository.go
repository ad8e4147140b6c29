package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

var _ repository.WorkflowRepository = (*WorkflowRepo)(nil)

// WorkflowRepo implementación del puerto WorkflowRepository sobre PostgreSQL.
type WorkflowRepo struct {
	db querier
}

// NewWorkflowRepository construye el adaptador de persistencia para workflows.
// Acepta el pool o una transacción.
func NewWorkflowRepository(db querier) *WorkflowRepo {
	return &WorkflowRepo{db: db}
}

const workflowColumns = `id, document_id, assigned_to, current_step, status, created_at, updated_at`

// Create persiste un nuevo workflow.
func (r *WorkflowRepo) Create(ctx context.Context, wf *entity.Workflow) error {
	query := `
		INSERT INTO workflows (` + workflowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		wf.ID, wf.DocumentID, wf.AssignedTo, wf.CurrentStep, wf.Status, wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetByID obtiene un workflow por ID. Devuelve (nil, nil) si no existe.
func (r *WorkflowRepo) GetByID(ctx context.Context, id string) (*entity.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`
	var wf entity.Workflow
	err := r.db.QueryRow(ctx, query, id).Scan(
		&wf.ID, &wf.DocumentID, &wf.AssignedTo, &wf.CurrentStep, &wf.Status, &wf.CreatedAt, &wf.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get workflow by id: %w", err)
	}
	return &wf, nil
}

// Update actualiza un workflow.
func (r *WorkflowRepo) Update(ctx context.Context, wf *entity.Workflow) error {
	query := `
		UPDATE workflows SET assigned_to = $2, current_step = $3, status = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.db.Exec(ctx, query, wf.ID, wf.AssignedTo, wf.CurrentStep, wf.Status, wf.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return nil
}

// ListAll todos los workflows, más recientes primero.
func (r *WorkflowRepo) ListAll(ctx context.Context) ([]*entity.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ListByDocument workflows de un documento en orden de creación.
func (r *WorkflowRepo) ListByDocument(ctx context.Context, documentID string) ([]*entity.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE document_id = $1 ORDER BY created_at ASC`
	return r.list(ctx, query, documentID)
}

// ListByAssignee workflows asignados a un usuario, más recientes primero.
func (r *WorkflowRepo) ListByAssignee(ctx context.Context, userID string) ([]*entity.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE assigned_to = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

func (r *WorkflowRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Workflow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()
	var list []*entity.Workflow
	for rows.Next() {
		var wf entity.Workflow
		if err := rows.Scan(&wf.ID, &wf.DocumentID, &wf.AssignedTo, &wf.CurrentStep, &wf.Status,
			&wf.CreatedAt, &wf.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		list = append(list, &wf)
	}
	return list, rows.Err()
}

// Delete elimina un workflow por ID.
func (r *WorkflowRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}

// DeleteByDocument elimina todos los workflows de un documento.
func (r *WorkflowRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workflows WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("delete workflows by document: %w", err)
	}
	return nil
}
