package entity

import "time"

// Roles válidos para User. Un usuario tiene exactamente uno, o ninguno (cadena vacía).
const (
	RoleAdministrator = "administrator"
	RoleManager       = "manager"
	RoleEmployee      = "employee"
)

// ValidRole indica si role pertenece al enum cerrado de roles asignables.
func ValidRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User representa un usuario del sistema. La identidad se crea vía registro;
// el rol solo lo muta un administrador.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Role         string // administrator, manager, employee o "" (sin rol)
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
