package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrTenantNotFound    = errors.New("restaurante no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrIllegalTransition = errors.New("transición de estado no permitida")
	ErrSequenceExhausted = errors.New("consecutivo de pedidos agotado para el año")
	ErrAlreadyArchived   = errors.New("el pedido ya fue archivado")
)
