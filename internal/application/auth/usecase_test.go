package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/docuflow-api/internal/application/auth"
	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/pkg/jwt"
)

// memUserRepo implementación mínima en memoria de repository.UserRepository.
type memUserRepo struct {
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(context.Context, int, int) ([]*entity.User, error) { return nil, nil }

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

const testSecret = "secreto-de-prueba-docuflow"

func newAuthFixture() (*auth.AuthUseCase, *memUserRepo) {
	repo := newMemUserRepo()
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "docuflow-test",
	})
	return uc, repo
}

func registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:  "jperez",
		Email:     "jperez@example.com",
		Password:  "Segura2024",
		FirstName: "Juan",
		LastName:  "Pérez",
	}
}

func TestRegister_CreaEmployeeActivo(t *testing.T) {
	uc, repo := newAuthFixture()

	resp, err := uc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, entity.RoleEmployee, resp.Role, "El registro público siempre asigna rol employee")
	assert.Equal(t, "active", resp.Status)
	assert.NotEmpty(t, resp.ID)

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "Segura2024", stored.PasswordHash, "El password nunca se persiste en claro")
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_PoliticaDePassword(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()

	casos := []struct {
		nombre   string
		password string
	}{
		{"muy corto", "Ab1"},
		{"sin número", "SoloLetras"},
		{"sin letra", "12345678"},
	}
	for _, c := range casos {
		in := registerRequest()
		in.Password = c.password
		_, err := uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation, "password %s debe rechazarse", c.nombre)
	}
}

func TestRegister_Duplicados(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	in := registerRequest()
	in.Email = "otro@example.com"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)

	in = registerRequest()
	in.Username = "otro"
	_, err = uc.Register(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenConClaims(t *testing.T) {
	uc, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Username: "jperez", Password: "Segura2024"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.ID, resp.User.ID)

	userID, username, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err, "El token emitido debe validar con el mismo secret")
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, "jperez", username)
	assert.Equal(t, entity.RoleEmployee, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, repo := newAuthFixture()
	ctx := context.Background()

	reg, err := uc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "jperez", Password: "Incorrecta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "Password incorrecto no debe distinguirse de usuario inexistente")

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "no-existe", Password: "Segura2024"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Usuario inactivo: credenciales correctas pero acceso denegado
	stored, _ := repo.GetByID(ctx, reg.ID)
	stored.Status = "inactive"
	require.NoError(t, repo.Update(ctx, stored))

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "jperez", Password: "Segura2024"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
