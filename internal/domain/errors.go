package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los use cases los envuelven con %w para añadir detalle de campo;
// la capa HTTP los mapea a status codes con errors.Is.
var (
	ErrValidation            = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrInvalidState          = errors.New("operación ilegal para el estado actual")
	ErrUsernameAlreadyExists = errors.New("el username ya está registrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")

	// Fallos del clasificador: degradación, nunca fatales para el upload.
	ErrModelUnavailable = errors.New("modelo de clasificación no disponible")
	ErrEmptyInput       = errors.New("texto vacío")

	// Fallo del storage remoto: el registro persiste con status Failed.
	ErrRemoteStorage = errors.New("fallo del storage remoto")
)
