package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación del puerto DocumentRepository sobre PostgreSQL.
// La categoría se guarda como NULL cuando el clasificador no asignó ninguna.
type DocumentRepo struct {
	db querier
}

// NewDocumentRepository construye el adaptador de persistencia para documentos.
// Acepta el pool o una transacción.
func NewDocumentRepository(db querier) *DocumentRepo {
	return &DocumentRepo{db: db}
}

const documentColumns = `id, title, document_type, file_path, status, COALESCE(category, ''), uploaded_by, uploaded_at, updated_at`

// Create persiste un nuevo documento.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (id, title, document_type, file_path, status, category, uploaded_by, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.Title, doc.DocumentType, doc.FilePath, doc.Status, doc.Category,
		doc.UploadedBy, doc.UploadedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID. Devuelve (nil, nil) si no existe.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var d entity.Document
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Title, &d.DocumentType, &d.FilePath, &d.Status, &d.Category,
		&d.UploadedBy, &d.UploadedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by id: %w", err)
	}
	return &d, nil
}

// UpdateStatus actualiza el estado de un documento.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: documento", domain.ErrNotFound)
	}
	return nil
}

// UpdateCategory asigna la categoría predicha por el clasificador.
func (r *DocumentRepo) UpdateCategory(ctx context.Context, id, category string) error {
	tag, err := r.db.Exec(ctx, `UPDATE documents SET category = NULLIF($2, ''), updated_at = now() WHERE id = $1`, id, category)
	if err != nil {
		return fmt.Errorf("update document category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: documento", domain.ErrNotFound)
	}
	return nil
}

// ListPending documentos Pending en orden de subida (FIFO de revisión).
func (r *DocumentRepo) ListPending(ctx context.Context) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE status = $1 ORDER BY uploaded_at ASC`
	return r.list(ctx, query, entity.DocStatusPending)
}

// ListByUploader documentos subidos por un usuario, más recientes primero.
func (r *DocumentRepo) ListByUploader(ctx context.Context, userID string) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE uploaded_by = $1 ORDER BY uploaded_at DESC`
	return r.list(ctx, query, userID)
}

// ListAll todos los documentos, más recientes primero.
func (r *DocumentRepo) ListAll(ctx context.Context) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents ORDER BY uploaded_at DESC`
	return r.list(ctx, query)
}

func (r *DocumentRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Document, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(&d.ID, &d.Title, &d.DocumentType, &d.FilePath, &d.Status, &d.Category,
			&d.UploadedBy, &d.UploadedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Delete elimina un documento por ID.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
