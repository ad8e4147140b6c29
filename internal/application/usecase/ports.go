package usecase

import (
	"context"
	"io"

	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

// Classifier define el puerto del clasificador de documentos.
// Devuelve domain.ErrEmptyInput con texto en blanco y domain.ErrModelUnavailable
// si el artefacto del modelo falta o está corrupto.
type Classifier interface {
	PredictCategory(ctx context.Context, text string) (string, error)
}

// BlobStorage define el puerto del almacenamiento local de archivos subidos.
type BlobStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// RemoteStorage define el puerto del storage remoto (WebDAV). La implementación
// hace como máximo un retry en fallo transitorio; si devuelve error el caller
// marca el documento como Failed. Un valor nil deshabilita la subida remota.
type RemoteStorage interface {
	Upload(ctx context.Context, filename string, data io.Reader) error
}

// TxRunner ejecuta un callback con repositorios atados a una transacción
// (borrado en cascada documento + workflows de forma atómica).
type TxRunner interface {
	Run(ctx context.Context, fn func(docRepo repository.DocumentRepository, wfRepo repository.WorkflowRepository) error) error
}

// WorkflowForPDF línea de workflow ya resuelta para la hoja de resumen.
type WorkflowForPDF struct {
	CurrentStep string
	Status      string
	Assignee    string
}

// SummaryPDFGenerator genera la hoja de resumen PDF de un documento.
type SummaryPDFGenerator interface {
	GenerateSummaryPDF(ctx context.Context, doc *entity.Document, uploader *entity.User, workflows []WorkflowForPDF) ([]byte, error)
}
