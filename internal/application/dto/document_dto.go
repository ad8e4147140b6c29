package dto

import "time"

// UploadDocumentRequest metadatos del upload; el blob llega como multipart.
type UploadDocumentRequest struct {
	Title        string `json:"title" form:"title" validate:"required,min=1,max=255"`
	DocumentType string `json:"document_type" form:"document_type" validate:"required,oneof=Invoice Contract Report"`
}

// ReviewRequest acción de revisión de un manager sobre un documento Pending.
type ReviewRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// DocumentResponse salida de un documento.
type DocumentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"document_type"`
	FilePath     string    `json:"file"`
	Status       string    `json:"status"`
	Category     string    `json:"category,omitempty"`
	UploadedBy   string    `json:"uploaded_by"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DocumentListResponse listado de documentos.
type DocumentListResponse struct {
	Items []DocumentResponse `json:"items"`
	Total int                `json:"total"`
}

// ClassifyRequest texto a clasificar directamente (endpoint de clasificación).
type ClassifyRequest struct {
	Text string `json:"text" validate:"required"`
}

// ClassifyResponse categoría predicha.
type ClassifyResponse struct {
	Category string `json:"category"`
}

// StatusCountDTO conteo de documentos por estado.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TypeCountDTO conteo de documentos por tipo.
type TypeCountDTO struct {
	DocumentType string `json:"document_type"`
	Count        int64  `json:"count"`
}

// DocumentMetricsResponse analytics documentales para el dashboard de managers.
// ApprovalRate es el porcentaje de documentos revisados que fueron aprobados,
// con dos decimales (string para no perder precisión en JSON).
type DocumentMetricsResponse struct {
	Total        int64            `json:"total"`
	ByStatus     []StatusCountDTO `json:"by_status"`
	ByType       []TypeCountDTO   `json:"by_type"`
	ApprovalRate string           `json:"approval_rate"`
}
