package dto

import "time"

// CreateWorkflowRequest entrada para crear un workflow sobre un documento.
type CreateWorkflowRequest struct {
	DocumentID  string `json:"document_id" validate:"required,uuid"`
	AssignedTo  string `json:"assigned_to" validate:"required,uuid"`
	CurrentStep string `json:"current_step" validate:"required,min=1,max=100"`
}

// UpdateWorkflowStatusRequest entrada para actualizar el status de un workflow.
type UpdateWorkflowStatusRequest struct {
	Status string `json:"status" validate:"required,min=1,max=50"`
}

// WorkflowResponse salida de un workflow (solo referencias por id).
type WorkflowResponse struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	AssignedTo  string    `json:"assigned_to"`
	CurrentStep string    `json:"current_step"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkflowDetailResponse workflow con documento y asignado resueltos
// (listado de managers/administradores).
type WorkflowDetailResponse struct {
	WorkflowResponse
	Document *DocumentResponse `json:"document,omitempty"`
	Assignee *UserResponse     `json:"assignee,omitempty"`
}
