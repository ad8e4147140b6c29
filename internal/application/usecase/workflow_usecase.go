package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/access"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

// WorkflowUseCase asignación y seguimiento de tareas de workflow sobre documentos.
type WorkflowUseCase struct {
	wfRepo   repository.WorkflowRepository
	docRepo  repository.DocumentRepository
	userRepo repository.UserRepository
}

// NewWorkflowUseCase construye el caso de uso de workflows.
func NewWorkflowUseCase(wfRepo repository.WorkflowRepository, docRepo repository.DocumentRepository, userRepo repository.UserRepository) *WorkflowUseCase {
	return &WorkflowUseCase{wfRepo: wfRepo, docRepo: docRepo, userRepo: userRepo}
}

// Create asigna una tarea de workflow a un employee sobre un documento
// existente. El status inicial siempre es "In Progress". Requiere manager o
// administrator; el asignado debe tener rol employee.
func (uc *WorkflowUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateWorkflowRequest) (*dto.WorkflowResponse, error) {
	if err := access.RequireRole(actor, entity.RoleManager, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.CurrentStep) == "" {
		return nil, fmt.Errorf("%w: current_step es requerido", domain.ErrValidation)
	}

	doc, err := uc.docRepo.GetByID(ctx, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento", domain.ErrNotFound)
	}

	assignee, err := uc.userRepo.GetByID(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, fmt.Errorf("%w: usuario asignado", domain.ErrNotFound)
	}
	if assignee.Role != entity.RoleEmployee {
		return nil, fmt.Errorf("%w: solo se pueden asignar workflows a employees", domain.ErrValidation)
	}

	now := time.Now()
	wf := &entity.Workflow{
		ID:          uuid.New().String(),
		DocumentID:  in.DocumentID,
		AssignedTo:  in.AssignedTo,
		CurrentStep: in.CurrentStep,
		Status:      entity.WorkflowStatusInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.wfRepo.Create(ctx, wf); err != nil {
		return nil, err
	}
	return toWorkflowResponse(wf), nil
}

// UpdateStatus actualiza el status de un workflow. Requiere manager o
// administrator.
func (uc *WorkflowUseCase) UpdateStatus(ctx context.Context, actor access.Actor, id, status string) (*dto.WorkflowResponse, error) {
	if err := access.RequireRole(actor, entity.RoleManager, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("%w: status es requerido", domain.ErrValidation)
	}

	wf, err := uc.wfRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wf == nil {
		return nil, fmt.Errorf("%w: workflow", domain.ErrNotFound)
	}

	wf.Status = status
	wf.UpdatedAt = time.Now()
	if err := uc.wfRepo.Update(ctx, wf); err != nil {
		return nil, err
	}
	return toWorkflowResponse(wf), nil
}

// Delete elimina un workflow. Requiere manager o administrator.
func (uc *WorkflowUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := access.RequireRole(actor, entity.RoleManager, entity.RoleAdministrator); err != nil {
		return err
	}
	wf, err := uc.wfRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if wf == nil {
		return fmt.Errorf("%w: workflow", domain.ErrNotFound)
	}
	return uc.wfRepo.Delete(ctx, id)
}

// ListAll lista todos los workflows con documento y asignado resueltos.
// Requiere manager o administrator.
func (uc *WorkflowUseCase) ListAll(ctx context.Context, actor access.Actor) ([]dto.WorkflowDetailResponse, error) {
	if err := access.RequireRole(actor, entity.RoleManager, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	workflows, err := uc.wfRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.WorkflowDetailResponse, 0, len(workflows))
	for _, wf := range workflows {
		detail := dto.WorkflowDetailResponse{WorkflowResponse: *toWorkflowResponse(wf)}
		if doc, err := uc.docRepo.GetByID(ctx, wf.DocumentID); err == nil && doc != nil {
			detail.Document = toDocumentResponse(doc)
		}
		if u, err := uc.userRepo.GetByID(ctx, wf.AssignedTo); err == nil && u != nil {
			detail.Assignee = toUserResponse(u)
		}
		out = append(out, detail)
	}
	return out, nil
}

// ListMine lista los workflows asignados al actor. Cualquier rol autenticado.
func (uc *WorkflowUseCase) ListMine(ctx context.Context, actor access.Actor) ([]dto.WorkflowResponse, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	workflows, err := uc.wfRepo.ListByAssignee(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkflowResponse, 0, len(workflows))
	for _, wf := range workflows {
		out = append(out, *toWorkflowResponse(wf))
	}
	return out, nil
}

func toWorkflowResponse(wf *entity.Workflow) *dto.WorkflowResponse {
	if wf == nil {
		return nil
	}
	return &dto.WorkflowResponse{
		ID:          wf.ID,
		DocumentID:  wf.DocumentID,
		AssignedTo:  wf.AssignedTo,
		CurrentStep: wf.CurrentStep,
		Status:      wf.Status,
		CreatedAt:   wf.CreatedAt,
		UpdatedAt:   wf.UpdatedAt,
	}
}
