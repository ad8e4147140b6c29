package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
)

// WorkflowHandler maneja las peticiones HTTP para Workflow (protegido).
type WorkflowHandler struct {
	uc *usecase.WorkflowUseCase
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(uc *usecase.WorkflowUseCase) *WorkflowHandler {
	return &WorkflowHandler{uc: uc}
}

// Create godoc
// @Summary      Crear workflow
// @Description  Asigna una tarea sobre un documento a un employee. Solo managers y administradores.
// @Tags         workflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkflowRequest  true  "document_id, assigned_to, current_step"
// @Success      201   {object}  dto.WorkflowResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workflows [post]
func (h *WorkflowHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkflowRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.UserContext(), Actor(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar workflows
// @Description  Todos los workflows con documento y asignado resueltos. Solo managers y administradores.
// @Tags         workflows
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkflowDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/workflows [get]
func (h *WorkflowHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListAll(c.UserContext(), Actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Listar mis workflows
// @Tags         workflows
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WorkflowResponse
// @Router       /api/workflows/mine [get]
func (h *WorkflowHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), Actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Actualizar estado de workflow
// @Description  Actualiza el status de un workflow. Solo managers y administradores.
// @Tags         workflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "ID del workflow"
// @Param        body  body  dto.UpdateWorkflowStatusRequest  true  "status"
// @Success      200   {object}  dto.WorkflowResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workflows/{id}/status [put]
func (h *WorkflowHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateWorkflowStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), Actor(c), id, in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar workflow
// @Description  Solo managers y administradores.
// @Tags         workflows
// @Security     Bearer
// @Param        id  path  string  true  "ID del workflow"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workflows/{id} [delete]
func (h *WorkflowHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.UserContext(), Actor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
