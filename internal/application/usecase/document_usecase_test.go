package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/access"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

var (
	actorAdmin    = access.Actor{ID: "u-admin", Username: "admin", Role: entity.RoleAdministrator}
	actorManager  = access.Actor{ID: "u-manager", Username: "mgonzalez", Role: entity.RoleManager}
	actorEmployee = access.Actor{ID: "u-employee", Username: "jperez", Role: entity.RoleEmployee}
)

type documentFixture struct {
	uc        *usecase.DocumentUseCase
	docRepo   *fakeDocumentRepo
	userRepo  *fakeUserRepo
	wfRepo    *fakeWorkflowRepo
	analytics *fakeAnalyticsRepo
	clf       *fakeClassifier
	blob      *fakeBlobStorage
}

// newDocumentFixture arma el use case con dobles en memoria. remote puede ser
// nil para simular el despliegue sin Nextcloud.
func newDocumentFixture(remote usecase.RemoteStorage) *documentFixture {
	f := &documentFixture{
		docRepo:   newFakeDocumentRepo(),
		userRepo:  newFakeUserRepo(),
		wfRepo:    newFakeWorkflowRepo(),
		analytics: &fakeAnalyticsRepo{},
		clf:       &fakeClassifier{category: "Finance"},
		blob:      newFakeBlobStorage(),
	}
	f.uc = usecase.NewDocumentUseCase(
		f.docRepo, f.userRepo, f.wfRepo, f.analytics,
		f.clf, f.blob, remote, fakePDFGenerator{},
		&fakeTxRunner{docRepo: f.docRepo, wfRepo: f.wfRepo},
		testLogger(), time.Second,
	)
	return f
}

func uploadRequest() dto.UploadDocumentRequest {
	return dto.UploadDocumentRequest{Title: "Factura noviembre", DocumentType: entity.DocTypeInvoice}
}

func TestDocumentUpload_EmployeeCreaPendingConCategoria(t *testing.T) {
	f := newDocumentFixture(nil)

	resp, err := f.uc.Upload(context.Background(), actorEmployee, uploadRequest(), []byte("factura de pago"), "factura.txt")
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusPending, resp.Status, "Todo documento nuevo debe nacer Pending")
	assert.Equal(t, "Finance", resp.Category, "La categoría del clasificador debe persistirse")
	assert.Equal(t, actorEmployee.ID, resp.UploadedBy)
	assert.Equal(t, "documents/"+resp.ID+".txt", resp.FilePath)

	stored, err := f.docRepo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored, "El documento debe quedar persistido")
	assert.Equal(t, []byte("factura de pago"), f.blob.saved[resp.FilePath], "El blob debe quedar en el storage local")
}

func TestDocumentUpload_ManagerProhibido(t *testing.T) {
	f := newDocumentFixture(nil)

	_, err := f.uc.Upload(context.Background(), actorManager, uploadRequest(), []byte("x"), "x.txt")
	require.ErrorIs(t, err, domain.ErrForbidden, "Los managers no suben documentos")

	assert.Empty(t, f.docRepo.docs, "Una operación prohibida no debe dejar rastro")
	assert.Empty(t, f.blob.saved)
}

func TestDocumentUpload_SinAutenticar(t *testing.T) {
	f := newDocumentFixture(nil)

	_, err := f.uc.Upload(context.Background(), access.Actor{}, uploadRequest(), []byte("x"), "x.txt")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDocumentUpload_Validacion(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()

	_, err := f.uc.Upload(ctx, actorEmployee, dto.UploadDocumentRequest{Title: "  ", DocumentType: entity.DocTypeInvoice}, []byte("x"), "x.txt")
	assert.ErrorIs(t, err, domain.ErrValidation, "Título en blanco debe rechazarse")

	_, err = f.uc.Upload(ctx, actorEmployee, dto.UploadDocumentRequest{Title: "Doc", DocumentType: "Memo"}, []byte("x"), "x.txt")
	assert.ErrorIs(t, err, domain.ErrValidation, "Tipo fuera del enum debe rechazarse")

	_, err = f.uc.Upload(ctx, actorEmployee, uploadRequest(), nil, "x.txt")
	assert.ErrorIs(t, err, domain.ErrValidation, "Archivo vacío debe rechazarse")
}

func TestDocumentUpload_ClasificadorFallaDegrada(t *testing.T) {
	f := newDocumentFixture(nil)
	f.clf.err = domain.ErrModelUnavailable

	resp, err := f.uc.Upload(context.Background(), actorEmployee, uploadRequest(), []byte("contenido"), "doc.txt")
	require.NoError(t, err, "El fallo del clasificador nunca debe hacer fallar el upload")

	assert.Equal(t, entity.DocStatusPending, resp.Status)
	assert.Empty(t, resp.Category, "Sin clasificador el documento queda sin categoría")
}

func TestDocumentUpload_RepoFallaRetiraBlob(t *testing.T) {
	f := newDocumentFixture(nil)
	f.docRepo.failCreate = errors.New("conexión perdida")

	_, err := f.uc.Upload(context.Background(), actorEmployee, uploadRequest(), []byte("x"), "doc.txt")
	require.Error(t, err)

	assert.Empty(t, f.blob.saved, "El blob huérfano debe retirarse si el INSERT falla")
	assert.Len(t, f.blob.removed, 1)
}

func TestDocumentUpload_RemotoFallaMarcaFailed(t *testing.T) {
	remote := &fakeRemoteStorage{err: domain.ErrRemoteStorage}
	f := newDocumentFixture(remote)

	resp, err := f.uc.Upload(context.Background(), actorEmployee, uploadRequest(), []byte("x"), "doc.txt")
	require.NoError(t, err, "El registro persiste aunque la subida remota falle")

	assert.Equal(t, entity.DocStatusFailed, resp.Status, "El fallo remoto marca el documento Failed")
	stored, _ := f.docRepo.GetByID(context.Background(), resp.ID)
	require.NotNil(t, stored)
	assert.Equal(t, entity.DocStatusFailed, stored.Status)
	assert.Equal(t, 1, remote.calls)
}

func TestDocumentUpload_RemotoOKQuedaPending(t *testing.T) {
	remote := &fakeRemoteStorage{}
	f := newDocumentFixture(remote)

	resp, err := f.uc.Upload(context.Background(), actorEmployee, uploadRequest(), []byte("x"), "doc.txt")
	require.NoError(t, err)

	assert.Equal(t, entity.DocStatusPending, resp.Status)
	assert.Equal(t, 1, remote.calls)
}

func seedDocument(t *testing.T, f *documentFixture, owner access.Actor, status string) *entity.Document {
	t.Helper()
	doc := &entity.Document{
		ID:           "doc-" + owner.ID + "-" + status,
		Title:        "Contrato de servicios",
		DocumentType: entity.DocTypeContract,
		FilePath:     "documents/seed.txt",
		Status:       status,
		UploadedBy:   owner.ID,
		UploadedAt:   time.Now().Add(-time.Hour),
		UpdatedAt:    time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.docRepo.Create(context.Background(), doc))
	return doc
}

func TestDocumentReview_ApruebaYRechaza(t *testing.T) {
	f := newDocumentFixture(nil)
	aprobar := seedDocument(t, f, actorEmployee, entity.DocStatusPending)

	resp, err := f.uc.Review(context.Background(), actorManager, aprobar.ID, "approve")
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusApproved, resp.Status)

	f2 := newDocumentFixture(nil)
	rechazar := seedDocument(t, f2, actorEmployee, entity.DocStatusPending)

	resp, err = f2.uc.Review(context.Background(), actorManager, rechazar.ID, "reject")
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusRejected, resp.Status)
}

func TestDocumentReview_DobleRevision(t *testing.T) {
	f := newDocumentFixture(nil)
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusPending)

	_, err := f.uc.Review(context.Background(), actorManager, doc.ID, "approve")
	require.NoError(t, err)

	_, err = f.uc.Review(context.Background(), actorManager, doc.ID, "reject")
	require.ErrorIs(t, err, domain.ErrInvalidState, "Un documento terminal no admite segunda revisión")

	stored, _ := f.docRepo.GetByID(context.Background(), doc.ID)
	assert.Equal(t, entity.DocStatusApproved, stored.Status, "La segunda revisión no debe mutar el estado")
}

func TestDocumentReview_EmployeeYAdminProhibidos(t *testing.T) {
	f := newDocumentFixture(nil)
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusPending)

	_, err := f.uc.Review(context.Background(), actorEmployee, doc.ID, "approve")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Review(context.Background(), actorAdmin, doc.ID, "approve")
	assert.ErrorIs(t, err, domain.ErrForbidden, "La revisión es exclusiva de managers")
}

func TestDocumentReview_AccionInvalidaYNoExiste(t *testing.T) {
	f := newDocumentFixture(nil)
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusPending)

	_, err := f.uc.Review(context.Background(), actorManager, doc.ID, "archive")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.Review(context.Background(), actorManager, "no-existe", "approve")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentListPending_FIFOYSoloRevisores(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()

	viejo := &entity.Document{ID: "z-viejo", Status: entity.DocStatusPending, UploadedBy: actorEmployee.ID, UploadedAt: time.Now().Add(-2 * time.Hour)}
	nuevo := &entity.Document{ID: "a-nuevo", Status: entity.DocStatusPending, UploadedBy: actorEmployee.ID, UploadedAt: time.Now()}
	aprobado := &entity.Document{ID: "b-aprobado", Status: entity.DocStatusApproved, UploadedBy: actorEmployee.ID, UploadedAt: time.Now().Add(-time.Hour)}
	for _, d := range []*entity.Document{nuevo, viejo, aprobado} {
		require.NoError(t, f.docRepo.Create(ctx, d))
	}

	docs, err := f.uc.ListPending(ctx, actorManager)
	require.NoError(t, err)
	require.Len(t, docs, 2, "Solo los Pending entran a la cola de revisión")
	assert.Equal(t, "z-viejo", docs[0].ID, "La cola de revisión es FIFO por fecha de subida")
	assert.Equal(t, "a-nuevo", docs[1].ID)

	_, err = f.uc.ListPending(ctx, actorEmployee)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDocumentList_VisibilidadPorRol(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()
	seedDocument(t, f, actorEmployee, entity.DocStatusPending)
	seedDocument(t, f, actorAdmin, entity.DocStatusApproved)

	todos, err := f.uc.List(ctx, actorManager)
	require.NoError(t, err)
	assert.Len(t, todos, 2, "Managers ven todos los documentos")

	propios, err := f.uc.List(ctx, actorEmployee)
	require.NoError(t, err)
	require.Len(t, propios, 1, "Un employee solo ve sus documentos")
	assert.Equal(t, actorEmployee.ID, propios[0].UploadedBy)
}

func TestDocumentGetByID_SoloDuenoYRevisores(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusPending)

	otroEmployee := access.Actor{ID: "u-otro", Username: "otro", Role: entity.RoleEmployee}

	_, err := f.uc.GetByID(ctx, actorEmployee, doc.ID)
	assert.NoError(t, err, "El dueño accede a su documento")
	_, err = f.uc.GetByID(ctx, actorManager, doc.ID)
	assert.NoError(t, err)
	_, err = f.uc.GetByID(ctx, otroEmployee, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "Otro employee no accede a documentos ajenos")
}

func TestDocumentDelete_CascadaYAutorizacion(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusPending)

	wf := &entity.Workflow{ID: "wf-1", DocumentID: doc.ID, AssignedTo: actorEmployee.ID, CurrentStep: "Revisión", Status: entity.WorkflowStatusInProgress}
	require.NoError(t, f.wfRepo.Create(ctx, wf))
	f.blob.saved[doc.FilePath] = []byte("x")

	otroEmployee := access.Actor{ID: "u-otro", Username: "otro", Role: entity.RoleEmployee}
	err := f.uc.Delete(ctx, otroEmployee, doc.ID)
	require.ErrorIs(t, err, domain.ErrForbidden, "Solo el dueño o un administrador borran")

	require.NoError(t, f.uc.Delete(ctx, actorEmployee, doc.ID))

	stored, _ := f.docRepo.GetByID(ctx, doc.ID)
	assert.Nil(t, stored, "El documento debe desaparecer")
	restantes, _ := f.wfRepo.ListByDocument(ctx, doc.ID)
	assert.Empty(t, restantes, "Los workflows del documento se borran en cascada")
	assert.Contains(t, f.blob.removed, doc.FilePath, "El blob se retira tras el borrado")
}

func TestDocumentDelete_AdminPuedeBorrarAjenos(t *testing.T) {
	f := newDocumentFixture(nil)
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusApproved)

	require.NoError(t, f.uc.Delete(context.Background(), actorAdmin, doc.ID))
	stored, _ := f.docRepo.GetByID(context.Background(), doc.ID)
	assert.Nil(t, stored)
}

func TestDocumentClassify_DirectoYValidacion(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()

	resp, err := f.uc.Classify(ctx, actorEmployee, "factura de pago mensual")
	require.NoError(t, err)
	assert.Equal(t, "Finance", resp.Category)

	_, err = f.uc.Classify(ctx, actorEmployee, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation, "El texto en blanco se rechaza antes del modelo")

	_, err = f.uc.Classify(ctx, access.Actor{}, "texto")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDocumentMetrics_SoloRevisores(t *testing.T) {
	f := newDocumentFixture(nil)
	f.analytics.byStatus = []repository.StatusCountResult{
		{Status: entity.DocStatusApproved, Count: 2},
		{Status: entity.DocStatusPending, Count: 1},
	}
	f.analytics.byType = []repository.TypeCountResult{{DocumentType: entity.DocTypeInvoice, Count: 3}}
	f.analytics.rate = decimal.RequireFromString("66.67")

	out, err := f.uc.Metrics(context.Background(), actorManager)
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, "66.67", out.ApprovalRate, "La tasa de aprobación se serializa con dos decimales")
	assert.Len(t, out.ByStatus, 2)
	assert.Len(t, out.ByType, 1)

	_, err = f.uc.Metrics(context.Background(), actorEmployee)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDocumentSummaryPDF_ResuelveAsignados(t *testing.T) {
	f := newDocumentFixture(nil)
	ctx := context.Background()
	doc := seedDocument(t, f, actorEmployee, entity.DocStatusApproved)

	require.NoError(t, f.userRepo.Create(ctx, &entity.User{ID: actorEmployee.ID, Username: actorEmployee.Username, Role: entity.RoleEmployee}))
	require.NoError(t, f.wfRepo.Create(ctx, &entity.Workflow{ID: "wf-1", DocumentID: doc.ID, AssignedTo: actorEmployee.ID, CurrentStep: "Archivo", Status: "Done"}))

	pdf, err := f.uc.SummaryPDF(ctx, actorManager, doc.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
