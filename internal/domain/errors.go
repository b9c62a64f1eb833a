package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInvalidTransition     = errors.New("transición de estado inválida")
	ErrInvoiceLocked         = errors.New("la factura está bloqueada por el organizador")
	ErrReturnCommentRequired = errors.New("el comentario de devolución es obligatorio")
	ErrOrganizerCodeNotFound = errors.New("código de organizador no encontrado")
	ErrQuotaExceeded         = errors.New("límite del plan gratuito alcanzado")
	ErrTooManyAttempts       = errors.New("demasiados intentos, intente más tarde")
)
