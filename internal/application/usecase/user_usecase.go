package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/docuflow-api/internal/application/dto"
	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/access"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
	"github.com/jhoicas/docuflow-api/internal/domain/repository"
)

// UserUseCase gestión de usuarios (solo administradores).
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista usuarios con paginación. Requiere administrator.
func (uc *UserUseCase) List(ctx context.Context, actor access.Actor, limit, offset int) ([]dto.UserResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	users, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *toUserResponse(u))
	}
	return out, nil
}

// GetByID obtiene un usuario. Requiere administrator, o que el actor sea el propio usuario.
func (uc *UserUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.UserResponse, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdministrator() && actor.ID != id {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	return toUserResponse(user), nil
}

// GetByUsername obtiene un usuario por username. Requiere administrator, o que
// el actor sea el propio usuario.
func (uc *UserUseCase) GetByUsername(ctx context.Context, actor access.Actor, username string) (*dto.UserResponse, error) {
	if err := access.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdministrator() && actor.Username != username {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	return toUserResponse(user), nil
}

// UpdateRole cambia el rol de un usuario. Requiere administrator; el rol debe
// pertenecer al enum cerrado.
func (uc *UserUseCase) UpdateRole(ctx context.Context, actor access.Actor, id, role string) (*dto.UserResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdministrator); err != nil {
		return nil, err
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, role)
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Delete elimina un usuario. Requiere administrator. Los documentos del usuario
// (y sus workflows) caen en cascada por las FK de la base.
func (uc *UserUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := access.RequireRole(actor, entity.RoleAdministrator); err != nil {
		return err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: usuario", domain.ErrNotFound)
	}
	return uc.repo.Delete(ctx, id)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
