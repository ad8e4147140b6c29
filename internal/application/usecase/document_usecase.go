package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/access"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// DocumentUseCase orquesta el ciclo de vida documental: upload + clasificación
// + subida remota opcional, revisión, listados y borrado en cascada.
type DocumentUseCase struct {
	docRepo    repository.DocumentRepository
	userRepo   repository.UserRepository
	wfRepo     repository.WorkflowRepository
	analytics  repository.AnalyticsRepository
	classifier Classifier
	storage    BlobStorage
	remote     RemoteStorage // nil = subida remota deshabilitada
	pdfGen     SummaryPDFGenerator
	txRunner   TxRunner
	log        *logger.Logger

	classifyTimeout time.Duration
}

// NewDocumentUseCase construye el caso de uso. remote puede ser nil.
func NewDocumentUseCase(
	docRepo repository.DocumentRepository,
	userRepo repository.UserRepository,
	wfRepo repository.WorkflowRepository,
	analytics repository.AnalyticsRepository,
	classifier Classifier,
	storage BlobStorage,
	remote RemoteStorage,
	pdfGen SummaryPDFGenerator,
	txRunner TxRunner,
	log *logger.Logger,
	classifyTimeout time.Duration,
) *DocumentUseCase {
	if classifyTimeout <= 0 {
		classifyTimeout = 2 * time.Second
	}
	return &DocumentUseCase{
		docRepo:         docRepo,
		userRepo:        userRepo,
		wfRepo:          wfRepo,
		analytics:       analytics,
		classifier:      classifier,
		storage:         storage,
		remote:          remote,
		pdfGen:          pdfGen,
		txRunner:        txRunner,
		log:             log,
		classifyTimeout: classifyTimeout,
	}
}

// Upload crea un documento en estado Pending, guarda el blob, lo clasifica con
// timeout acotado y, si hay storage remoto configurado, sube el archivo.
// La clasificación nunca hace fallar el upload (se loguea y category queda
// vacía). El fallo de subida remota marca el documento Failed pero el registro
// persiste. Requiere rol employee o administrator.
func (uc *DocumentUseCase) Upload(ctx context.Context, actor access.Actor, in dto.UploadDocumentRequest, content []byte, filename string) (*dto.DocumentResponse, error) {
	if err := access.RequireRole(actor, entity.RoleEmployee, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrValidation)
	}
	if !entity.ValidDocumentType(in.DocumentType) {
		return nil, fmt.Errorf("%w: document_type debe ser Invoice, Contract o Report", domain.ErrValidation)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: el archivo es requerido", domain.ErrValidation)
	}

	now := time.Now()
	id := uuid.New().String()
	ext := path.Ext(filename)
	doc := &entity.Document{
		ID:           id,
		Title:        in.Title,
		DocumentType: in.DocumentType,
		FilePath:     "documents/" + id + ext,
		Status:       entity.DocStatusPending,
		UploadedBy:   actor.ID,
		UploadedAt:   now,
		UpdatedAt:    now,
	}

	if err := uc.storage.Save(ctx, doc.FilePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("guardar blob: %w", err)
	}
	if err := uc.docRepo.Create(ctx, doc); err != nil {
		// El registro no existe: retirar el blob huérfano.
		_ = uc.storage.Remove(ctx, doc.FilePath)
		return nil, err
	}

	uc.classify(ctx, doc, content)
	uc.uploadRemote(ctx, doc, content, filename)

	return toDocumentResponse(doc), nil
}

// classify predice la categoría con timeout acotado. El fallo degrada: se
// loguea, category queda vacía y el status del documento no cambia.
func (uc *DocumentUseCase) classify(ctx context.Context, doc *entity.Document, content []byte) {
	text := strings.TrimSpace(string(content))
	if text == "" {
		uc.log.Warn().Str("document_id", doc.ID).Msg("clasificación omitida: contenido vacío")
		return
	}

	cctx, cancel := context.WithTimeout(ctx, uc.classifyTimeout)
	defer cancel()

	category, err := uc.classifier.PredictCategory(cctx, text)
	if err != nil {
		uc.log.Warn().Err(err).Str("document_id", doc.ID).Msg("clasificación fallida, documento sin categoría")
		return
	}
	if err := uc.docRepo.UpdateCategory(ctx, doc.ID, category); err != nil {
		uc.log.Error().Err(err).Str("document_id", doc.ID).Msg("persistir categoría")
		return
	}
	doc.Category = category
}

// uploadRemote sube el blob al storage remoto si está configurado. El cliente
// ya aplica retry único + circuit breaker; si aún así falla, el documento pasa
// a Failed (estado terminal) y el registro persiste.
func (uc *DocumentUseCase) uploadRemote(ctx context.Context, doc *entity.Document, content []byte, filename string) {
	if uc.remote == nil {
		return
	}
	remoteName := doc.ID + path.Ext(filename)
	if err := uc.remote.Upload(ctx, remoteName, bytes.NewReader(content)); err != nil {
		uc.log.Error().Err(err).Str("document_id", doc.ID).Msg("subida remota fallida, documento marcado Failed")
		if err := uc.docRepo.UpdateStatus(ctx, doc.ID, entity.DocStatusFailed); err != nil {
			uc.log.Error().Err(err).Str("document_id", doc.ID).Msg("marcar documento Failed")
			return
		}
		doc.Status = entity.DocStatusFailed
	}
}

// Review aprueba o rechaza un documento Pending. Requiere rol manager.
func (uc *DocumentUseCase) Review(ctx context.Context, actor access.Actor, documentID, action string) (*dto.DocumentResponse, error) {
	if err := access.RequireRole(actor, entity.RoleManager); err != nil {
		return nil, err
	}

	var newStatus string
	switch action {
	case "approve":
		newStatus = entity.DocStatusApproved
	case "reject":
		newStatus = entity.DocStatusRejected
	default:
		return nil, fmt.Errorf("%w: action debe ser approve o reject", domain.ErrValidation)
	}

	doc, err := uc.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento", domain.ErrNotFound)
	}
	if doc.Terminal() {
		return nil, fmt.Errorf("%w: el documento ya está %s", domain.ErrInvalidState, doc.Status)
	}

	if err := uc.docRepo.UpdateStatus(ctx, documentID, newStatus); err != nil {
		return nil, err
	}
	doc.Status = newStatus
	doc.UpdatedAt = time.Now()
	return toDocumentResponse(doc), nil
}

// ListPending documentos Pending en orden FIFO (uploaded_at ascendente).
// Requiere manager o administrator.
func (uc *DocumentUseCase) ListPending(ctx context.Context, actor access.Actor) ([]dto.DocumentResponse, error) {
	if err := access.RequireRole(actor, entity.RoleManager, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	docs, err := uc.docRepo.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	return toDocumentResponses(docs), nil
}

// ListOwn documentos subidos por el propio actor. Cualquier rol autenticado.
func (uc *DocumentUseCase) ListOwn(ctx context.Context, actor access.Actor) ([]dto.DocumentResponse, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	docs, err := uc.docRepo.ListByUploader(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return toDocumentResponses(docs), nil
}

// List devuelve todos los documentos para managers/administradores y solo los
// propios para el resto.
func (uc *DocumentUseCase) List(ctx context.Context, actor access.Actor) ([]dto.DocumentResponse, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if actor.IsManager() || actor.IsAdministrator() {
		docs, err := uc.docRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return toDocumentResponses(docs), nil
	}
	return uc.ListOwn(ctx, actor)
}

// GetByID devuelve un documento. Solo el dueño, managers o administradores.
func (uc *DocumentUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.authorizedDocument(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// Delete elimina un documento y sus workflows en una única transacción.
// Requiere administrator o ser el dueño.
func (uc *DocumentUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := access.RequireAuthenticated(actor); err != nil {
		return err
	}
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: documento", domain.ErrNotFound)
	}
	if !actor.IsAdministrator() && doc.UploadedBy != actor.ID {
		return fmt.Errorf("%w: solo el dueño o un administrador pueden borrar el documento", domain.ErrForbidden)
	}

	err = uc.txRunner.Run(ctx, func(docRepo repository.DocumentRepository, wfRepo repository.WorkflowRepository) error {
		if err := wfRepo.DeleteByDocument(ctx, id); err != nil {
			return err
		}
		return docRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	// Limpieza del blob: best effort, el registro ya no existe.
	if err := uc.storage.Remove(ctx, doc.FilePath); err != nil {
		uc.log.Warn().Err(err).Str("document_id", id).Msg("retirar blob tras borrado")
	}
	return nil
}

// Classify expone el clasificador directamente (endpoint de clasificación).
// Cualquier rol autenticado; el texto vacío se rechaza antes de invocar el modelo.
func (uc *DocumentUseCase) Classify(ctx context.Context, actor access.Actor, text string) (*dto.ClassifyResponse, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text es requerido", domain.ErrValidation)
	}
	cctx, cancel := context.WithTimeout(ctx, uc.classifyTimeout)
	defer cancel()
	category, err := uc.classifier.PredictCategory(cctx, text)
	if err != nil {
		return nil, err
	}
	return &dto.ClassifyResponse{Category: category}, nil
}

// SummaryPDF genera la hoja de resumen PDF del documento con sus workflows.
// Solo el dueño, managers o administradores.
func (uc *DocumentUseCase) SummaryPDF(ctx context.Context, actor access.Actor, id string) ([]byte, error) {
	doc, err := uc.authorizedDocument(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	uploader, err := uc.userRepo.GetByID(ctx, doc.UploadedBy)
	if err != nil {
		return nil, err
	}
	workflows, err := uc.wfRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	lines := make([]WorkflowForPDF, 0, len(workflows))
	for _, wf := range workflows {
		assignee := wf.AssignedTo
		if u, err := uc.userRepo.GetByID(ctx, wf.AssignedTo); err == nil && u != nil {
			assignee = u.Username
		}
		lines = append(lines, WorkflowForPDF{
			CurrentStep: wf.CurrentStep,
			Status:      wf.Status,
			Assignee:    assignee,
		})
	}
	return uc.pdfGen.GenerateSummaryPDF(ctx, doc, uploader, lines)
}

// Metrics analytics documentales. Requiere manager o administrator.
func (uc *DocumentUseCase) Metrics(ctx context.Context, actor access.Actor) (*dto.DocumentMetricsResponse, error) {
	if err := access.RequireRole(actor, entity.RoleManager, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	byStatus, err := uc.analytics.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := uc.analytics.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	rate, err := uc.analytics.ApprovalRate(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.DocumentMetricsResponse{
		ByStatus:     make([]dto.StatusCountDTO, 0, len(byStatus)),
		ByType:       make([]dto.TypeCountDTO, 0, len(byType)),
		ApprovalRate: rate.StringFixed(2),
	}
	for _, s := range byStatus {
		out.Total += s.Count
		out.ByStatus = append(out.ByStatus, dto.StatusCountDTO{Status: s.Status, Count: s.Count})
	}
	for _, t := range byType {
		out.ByType = append(out.ByType, dto.TypeCountDTO{DocumentType: t.DocumentType, Count: t.Count})
	}
	return out, nil
}

// authorizedDocument carga el documento y verifica dueño/manager/administrator.
func (uc *DocumentUseCase) authorizedDocument(ctx context.Context, actor access.Actor, id string) (*entity.Document, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento", domain.ErrNotFound)
	}
	if !actor.IsAdministrator() && !actor.IsManager() && doc.UploadedBy != actor.ID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	if d == nil {
		return nil
	}
	return &dto.DocumentResponse{
		ID:           d.ID,
		Title:        d.Title,
		DocumentType: d.DocumentType,
		FilePath:     d.FilePath,
		Status:       d.Status,
		Category:     d.Category,
		UploadedBy:   d.UploadedBy,
		UploadedAt:   d.UploadedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func toDocumentResponses(docs []*entity.Document) []dto.DocumentResponse {
	out := make([]dto.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, *toDocumentResponse(d))
	}
	return out
}
