package entity

import "time"

// Estados válidos para User.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// User representa un usuario autenticable de la plataforma.
// El rol no vive aquí: se resuelve a partir de user_roles y company_users.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Superadmin   bool // capacidad global: acceso a /admin sin importar el rol
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRole rol directo asignado a un usuario (tabla user_roles).
type UserRole struct {
	UserID    string
	Role      string
	CreatedAt time.Time
}
