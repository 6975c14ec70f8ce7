package repository

import (
	"context"
	"time"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// UserDirectoryEntry fila desnormalizada usuario + empresa + rol directo (get_all_users).
type UserDirectoryEntry struct {
	UserID      string
	Email       string
	Name        string
	Status      string
	Superadmin  bool
	DirectRole  string
	CompanyID   string
	CompanyName string
	CompanyRole string
	IsAdmin     bool
	CreatedAt   time.Time
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ListIDs(ctx context.Context) ([]string, error)

	// GetDirectRole devuelve el rol de user_roles o "" si no tiene.
	GetDirectRole(ctx context.Context, userID string) (string, error)
	SetDirectRole(ctx context.Context, userID, role string) error

	ListDirectory(ctx context.Context, limit, offset int) ([]UserDirectoryEntry, error)
}
