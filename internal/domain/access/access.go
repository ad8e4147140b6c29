// Package access concentra el control de acceso por rol. Los roles son un
// enum cerrado adjunto al usuario (sin lookup dinámico de grupos); cada
// operación de dominio declara los roles que requiere y llama a las guardas
// de este paquete antes de tocar estado.
package access

import (
	"fmt"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// Actor es la identidad autenticada que ejecuta una operación.
// Se construye desde los claims del JWT; un Actor de valor cero no está autenticado.
type Actor struct {
	ID       string
	Username string
	Role     string
}

// Authenticated indica si el actor tiene identidad.
func (a Actor) Authenticated() bool { return a.ID != "" }

// IsAdministrator indica si el actor tiene el rol administrator.
func (a Actor) IsAdministrator() bool { return a.Role == entity.RoleAdministrator }

// IsManager indica si el actor tiene el rol manager.
func (a Actor) IsManager() bool { return a.Role == entity.RoleManager }

// IsEmployee indica si el actor tiene el rol employee.
func (a Actor) IsEmployee() bool { return a.Role == entity.RoleEmployee }

// RequireAuthenticated devuelve ErrUnauthorized si el actor no está autenticado.
func RequireAuthenticated(actor Actor) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	return nil
}

// RequireRole verifica que el actor esté autenticado y tenga alguno de los
// roles indicados. Sin autenticar → ErrUnauthorized; sin el rol → ErrForbidden.
func RequireRole(actor Actor, roles ...string) error {
	if !actor.Authenticated() {
		return domain.ErrUnauthorized
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: se requiere rol %v", domain.ErrForbidden, roles)
}
