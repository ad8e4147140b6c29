package usecase_test

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria para los puertos de los use cases. Implementan las mismas
// convenciones que los repositorios reales: GetBy* devuelve (nil, nil) cuando
// el registro no existe, y los listados copian las entidades para que el test
// no comparta punteros con el "almacén".
// ──────────────────────────────────────────────────────────────────────────────

type fakeDocumentRepo struct {
	docs map[string]*entity.Document

	failCreate       error
	failUpdateStatus error
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*entity.Document)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, doc *entity.Document) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	cp := *doc
	r.docs[doc.ID] = &cp
	return nil
}

func (r *fakeDocumentRepo) GetByID(_ context.Context, id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeDocumentRepo) UpdateStatus(_ context.Context, id, status string) error {
	if r.failUpdateStatus != nil {
		return r.failUpdateStatus
	}
	doc, ok := r.docs[id]
	if !ok {
		return nil
	}
	doc.Status = status
	doc.UpdatedAt = time.Now()
	return nil
}

func (r *fakeDocumentRepo) UpdateCategory(_ context.Context, id, category string) error {
	if doc, ok := r.docs[id]; ok {
		doc.Category = category
	}
	return nil
}

func (r *fakeDocumentRepo) ListPending(_ context.Context) ([]*entity.Document, error) {
	out := r.list(func(d *entity.Document) bool { return d.Status == entity.DocStatusPending })
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.Before(out[j].UploadedAt) })
	return out, nil
}

func (r *fakeDocumentRepo) ListByUploader(_ context.Context, userID string) ([]*entity.Document, error) {
	return r.list(func(d *entity.Document) bool { return d.UploadedBy == userID }), nil
}

func (r *fakeDocumentRepo) ListAll(_ context.Context) ([]*entity.Document, error) {
	return r.list(func(*entity.Document) bool { return true }), nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) list(keep func(*entity.Document) bool) []*entity.Document {
	out := make([]*entity.Document, 0, len(r.docs))
	for _, d := range r.docs {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

type fakeWorkflowRepo struct {
	workflows map[string]*entity.Workflow
}

func newFakeWorkflowRepo() *fakeWorkflowRepo {
	return &fakeWorkflowRepo{workflows: make(map[string]*entity.Workflow)}
}

func (r *fakeWorkflowRepo) Create(_ context.Context, wf *entity.Workflow) error {
	cp := *wf
	r.workflows[wf.ID] = &cp
	return nil
}

func (r *fakeWorkflowRepo) GetByID(_ context.Context, id string) (*entity.Workflow, error) {
	wf, ok := r.workflows[id]
	if !ok {
		return nil, nil
	}
	cp := *wf
	return &cp, nil
}

func (r *fakeWorkflowRepo) Update(_ context.Context, wf *entity.Workflow) error {
	cp := *wf
	r.workflows[wf.ID] = &cp
	return nil
}

func (r *fakeWorkflowRepo) ListAll(_ context.Context) ([]*entity.Workflow, error) {
	return r.list(func(*entity.Workflow) bool { return true }), nil
}

func (r *fakeWorkflowRepo) ListByDocument(_ context.Context, documentID string) ([]*entity.Workflow, error) {
	return r.list(func(wf *entity.Workflow) bool { return wf.DocumentID == documentID }), nil
}

func (r *fakeWorkflowRepo) ListByAssignee(_ context.Context, userID string) ([]*entity.Workflow, error) {
	return r.list(func(wf *entity.Workflow) bool { return wf.AssignedTo == userID }), nil
}

func (r *fakeWorkflowRepo) Delete(_ context.Context, id string) error {
	delete(r.workflows, id)
	return nil
}

func (r *fakeWorkflowRepo) DeleteByDocument(_ context.Context, documentID string) error {
	for id, wf := range r.workflows {
		if wf.DocumentID == documentID {
			delete(r.workflows, id)
		}
	}
	return nil
}

func (r *fakeWorkflowRepo) list(keep func(*entity.Workflow) bool) []*entity.Workflow {
	out := make([]*entity.Workflow, 0, len(r.workflows))
	for _, wf := range r.workflows {
		if keep(wf) {
			cp := *wf
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeAnalyticsRepo struct {
	byStatus []repository.StatusCountResult
	byType   []repository.TypeCountResult
	rate     decimal.Decimal
}

func (r *fakeAnalyticsRepo) CountByStatus(context.Context) ([]repository.StatusCountResult, error) {
	return r.byStatus, nil
}

func (r *fakeAnalyticsRepo) CountByType(context.Context) ([]repository.TypeCountResult, error) {
	return r.byType, nil
}

func (r *fakeAnalyticsRepo) ApprovalRate(context.Context) (decimal.Decimal, error) {
	return r.rate, nil
}

// fakeClassifier devuelve siempre la misma categoría, o err si está seteado.
type fakeClassifier struct {
	category string
	err      error
	calls    int
}

func (c *fakeClassifier) PredictCategory(_ context.Context, _ string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.category, nil
}

type fakeBlobStorage struct {
	saved    map[string][]byte
	removed  []string
	failSave error
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{saved: make(map[string][]byte)}
}

func (s *fakeBlobStorage) Save(_ context.Context, key string, data io.Reader) error {
	if s.failSave != nil {
		return s.failSave
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.saved[key] = b
	return nil
}

func (s *fakeBlobStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return nil, nil
}

func (s *fakeBlobStorage) Remove(_ context.Context, key string) error {
	s.removed = append(s.removed, key)
	delete(s.saved, key)
	return nil
}

type fakeRemoteStorage struct {
	err   error
	calls int
}

func (s *fakeRemoteStorage) Upload(_ context.Context, _ string, _ io.Reader) error {
	s.calls++
	return s.err
}

// fakeTxRunner entrega los mismos fakes al callback; la atomicidad real la
// cubren los tests de integración del runner de PostgreSQL.
type fakeTxRunner struct {
	docRepo *fakeDocumentRepo
	wfRepo  *fakeWorkflowRepo
}

func (t *fakeTxRunner) Run(ctx context.Context, fn func(repository.DocumentRepository, repository.WorkflowRepository) error) error {
	return fn(t.docRepo, t.wfRepo)
}

type fakePDFGenerator struct{}

func (fakePDFGenerator) GenerateSummaryPDF(context.Context, *entity.Document, *entity.User, []usecase.WorkflowForPDF) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
