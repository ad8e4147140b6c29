package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
)

// maxUploadBytes límite del archivo subido (20 MB).
const maxUploadBytes = 20 << 20

// DocumentHandler maneja las peticiones HTTP para Document (protegido).
type DocumentHandler struct {
	uc *usecase.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir documento
// @Description  Multipart: campos title, document_type y archivo file. El documento queda Pending y se clasifica automáticamente.
// @Tags         documents
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        title          formData  string  true   "Título"
// @Param        document_type  formData  string  true   "Invoice, Contract o Report"
// @Param        file           formData  file    true   "Archivo"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	in := dto.UploadDocumentRequest{
		Title:        c.FormValue("title"),
		DocumentType: c.FormValue("document_type"),
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el campo file es requerido"})
	}
	if fileHeader.Size > maxUploadBytes {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "el archivo supera el tamaño máximo"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "no se pudo leer el archivo"})
	}

	out, err := h.uc.Upload(c.UserContext(), Actor(c), in, content, fileHeader.Filename)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar documentos
// @Description  Managers y administradores ven todos; employees solo los propios.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), Actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPending godoc
// @Summary      Listar documentos pendientes de revisión
// @Description  Orden FIFO por fecha de subida. Solo managers y administradores.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents/pending [get]
func (h *DocumentHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext(), Actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListOwn godoc
// @Summary      Listar mis documentos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DocumentResponse
// @Router       /api/documents/mine [get]
func (h *DocumentHandler) ListOwn(c *fiber.Ctx) error {
	out, err := h.uc.ListOwn(c.UserContext(), Actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener documento por ID
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.UserContext(), Actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Review godoc
// @Summary      Aprobar o rechazar documento
// @Description  Solo managers. El documento debe estar Pending; los estados finales son inmutables.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del documento"
// @Param        body  body  dto.ReviewRequest  true  "action: approve | reject"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/review [post]
func (h *DocumentHandler) Review(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Review(c.UserContext(), Actor(c), id, in.Action)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar documento
// @Description  Borra el documento y sus workflows en cascada. Solo el dueño o un administrador.
// @Tags         documents
// @Security     Bearer
// @Param        id  path  string  true  "ID del documento"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(c.UserContext(), Actor(c), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Classify godoc
// @Summary      Clasificar texto
// @Description  Predice la categoría de un texto sin crear documento.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClassifyRequest  true  "text"
// @Success      200   {object}  dto.ClassifyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/documents/classify [post]
func (h *DocumentHandler) Classify(c *fiber.Ctx) error {
	var in dto.ClassifyRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Classify(c.UserContext(), Actor(c), in.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SummaryPDF godoc
// @Summary      Hoja de resumen PDF
// @Description  Genera un PDF con metadatos, estado y workflows del documento.
// @Tags         documents
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/summary.pdf [get]
func (h *DocumentHandler) SummaryPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	pdfBytes, err := h.uc.SummaryPDF(c.UserContext(), Actor(c), id)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="summary-`+id+`.pdf"`)
	return c.Send(pdfBytes)
}

// Metrics godoc
// @Summary      Métricas documentales
// @Description  Conteos por estado y tipo más tasa de aprobación. Solo managers y administradores.
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DocumentMetricsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/documents/metrics [get]
func (h *DocumentHandler) Metrics(c *fiber.Ctx) error {
	out, err := h.uc.Metrics(c.UserContext(), Actor(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
