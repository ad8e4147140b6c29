package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

type workflowFixture struct {
	uc       *usecase.WorkflowUseCase
	wfRepo   *fakeWorkflowRepo
	docRepo  *fakeDocumentRepo
	userRepo *fakeUserRepo
}

// newWorkflowFixture arma el use case con un documento Pending y los tres
// usuarios de los actores de prueba ya sembrados.
func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	f := &workflowFixture{
		wfRepo:  newFakeWorkflowRepo(),
		docRepo: newFakeDocumentRepo(),
		userRepo: newFakeUserRepo(
			&entity.User{ID: actorAdmin.ID, Username: actorAdmin.Username, Role: entity.RoleAdministrator},
			&entity.User{ID: actorManager.ID, Username: actorManager.Username, Role: entity.RoleManager},
			&entity.User{ID: actorEmployee.ID, Username: actorEmployee.Username, Role: entity.RoleEmployee},
		),
	}
	f.uc = usecase.NewWorkflowUseCase(f.wfRepo, f.docRepo, f.userRepo)

	require.NoError(t, f.docRepo.Create(context.Background(), &entity.Document{
		ID:           "doc-1",
		Title:        "Informe mensual",
		DocumentType: entity.DocTypeReport,
		Status:       entity.DocStatusPending,
		UploadedBy:   actorEmployee.ID,
		UploadedAt:   time.Now(),
		UpdatedAt:    time.Now(),
	}))
	return f
}

func createWorkflowRequest() dto.CreateWorkflowRequest {
	return dto.CreateWorkflowRequest{
		DocumentID:  "doc-1",
		AssignedTo:  actorEmployee.ID,
		CurrentStep: "Revisión inicial",
	}
}

func TestWorkflowCreate_ManagerAsignaConEstadoInicial(t *testing.T) {
	f := newWorkflowFixture(t)

	resp, err := f.uc.Create(context.Background(), actorManager, createWorkflowRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.WorkflowStatusInProgress, resp.Status, `Todo workflow nuevo arranca "In Progress"`)
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, actorEmployee.ID, resp.AssignedTo)
	assert.NotEmpty(t, resp.ID)
}

func TestWorkflowCreate_SoloManagersYAdministradores(t *testing.T) {
	f := newWorkflowFixture(t)

	_, err := f.uc.Create(context.Background(), actorEmployee, createWorkflowRequest())
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.wfRepo.workflows, "Una creación prohibida no debe persistir nada")

	_, err = f.uc.Create(context.Background(), actorAdmin, createWorkflowRequest())
	assert.NoError(t, err, "Los administradores también asignan workflows")
}

func TestWorkflowCreate_AsignadoDebeSerEmployee(t *testing.T) {
	f := newWorkflowFixture(t)
	in := createWorkflowRequest()
	in.AssignedTo = actorManager.ID

	_, err := f.uc.Create(context.Background(), actorManager, in)
	require.ErrorIs(t, err, domain.ErrValidation, "Los workflows solo se asignan a employees")
}

func TestWorkflowCreate_ReferenciasInexistentes(t *testing.T) {
	f := newWorkflowFixture(t)

	in := createWorkflowRequest()
	in.DocumentID = "no-existe"
	_, err := f.uc.Create(context.Background(), actorManager, in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "El documento debe existir")

	in = createWorkflowRequest()
	in.AssignedTo = "no-existe"
	_, err = f.uc.Create(context.Background(), actorManager, in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "El usuario asignado debe existir")

	in = createWorkflowRequest()
	in.CurrentStep = "  "
	_, err = f.uc.Create(context.Background(), actorManager, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func seedWorkflow(t *testing.T, f *workflowFixture, id, assignedTo string) *entity.Workflow {
	t.Helper()
	wf := &entity.Workflow{
		ID:          id,
		DocumentID:  "doc-1",
		AssignedTo:  assignedTo,
		CurrentStep: "Revisión inicial",
		Status:      entity.WorkflowStatusInProgress,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	require.NoError(t, f.wfRepo.Create(context.Background(), wf))
	return wf
}

func TestWorkflowUpdateStatus_SoloManagersYAdministradores(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	propio := seedWorkflow(t, f, "wf-propio", actorEmployee.ID)

	_, err := f.uc.UpdateStatus(ctx, actorEmployee, propio.ID, "Completed")
	require.ErrorIs(t, err, domain.ErrForbidden, "Ni siquiera el asignado actualiza el status directamente")

	stored, _ := f.wfRepo.GetByID(ctx, propio.ID)
	assert.Equal(t, entity.WorkflowStatusInProgress, stored.Status, "Una operación prohibida no muta estado")

	resp, err := f.uc.UpdateStatus(ctx, actorManager, propio.ID, "Blocked")
	require.NoError(t, err, "Los managers actualizan cualquier workflow")
	assert.Equal(t, "Blocked", resp.Status)

	resp, err = f.uc.UpdateStatus(ctx, actorAdmin, propio.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, "Completed", resp.Status)
}

func TestWorkflowUpdateStatus_Validacion(t *testing.T) {
	f := newWorkflowFixture(t)
	wf := seedWorkflow(t, f, "wf-1", actorEmployee.ID)

	_, err := f.uc.UpdateStatus(context.Background(), actorManager, wf.ID, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.uc.UpdateStatus(context.Background(), actorManager, "no-existe", "Completed")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkflowDelete_SoloManagersYAdministradores(t *testing.T) {
	f := newWorkflowFixture(t)
	wf := seedWorkflow(t, f, "wf-1", actorEmployee.ID)

	err := f.uc.Delete(context.Background(), actorEmployee, wf.ID)
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, f.uc.Delete(context.Background(), actorManager, wf.ID))
	restante, _ := f.wfRepo.GetByID(context.Background(), wf.ID)
	assert.Nil(t, restante)

	err = f.uc.Delete(context.Background(), actorManager, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkflowListAll_ResuelveDocumentoYAsignado(t *testing.T) {
	f := newWorkflowFixture(t)
	seedWorkflow(t, f, "wf-1", actorEmployee.ID)

	out, err := f.uc.ListAll(context.Background(), actorManager)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Document, "El listado detallado resuelve el documento")
	assert.Equal(t, "Informe mensual", out[0].Document.Title)
	require.NotNil(t, out[0].Assignee, "El listado detallado resuelve el asignado")
	assert.Equal(t, actorEmployee.Username, out[0].Assignee.Username)

	_, err = f.uc.ListAll(context.Background(), actorEmployee)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestWorkflowListMine_FiltraPorAsignado(t *testing.T) {
	f := newWorkflowFixture(t)
	seedWorkflow(t, f, "wf-propio", actorEmployee.ID)
	seedWorkflow(t, f, "wf-ajeno", "u-otro")

	out, err := f.uc.ListMine(context.Background(), actorEmployee)
	require.NoError(t, err)
	require.Len(t, out, 1, "ListMine solo devuelve los workflows del actor")
	assert.Equal(t, "wf-propio", out[0].ID)
}
