package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrNoCompany          = errors.New("el usuario no tiene empresa asociada")
	ErrFeatureDisabled    = errors.New("funcionalidad no habilitada para la empresa")
	// ErrPolicyRecursion la base devolvió recursión infinita en una política RLS (42P17).
	ErrPolicyRecursion = errors.New("error de políticas de acceso en la base de datos")
	ErrUpstream        = errors.New("servicio externo no disponible")
)
