package repository

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// CompanyUserRepository define el puerto de persistencia para company_users.
type CompanyUserRepository interface {
	// ListByUser devuelve las asociaciones del usuario en orden de creación.
	ListByUser(ctx context.Context, userID string) ([]entity.CompanyUser, error)
	// Upsert crea o reemplaza la única asociación del usuario (ON CONFLICT user_id).
	Upsert(ctx context.Context, cu *entity.CompanyUser) error
	// InsertIfAbsent crea la asociación solo si el usuario no tiene ninguna
	// (ON CONFLICT user_id DO NOTHING). inserted es false si ya existía.
	InsertIfAbsent(ctx context.Context, cu *entity.CompanyUser) (inserted bool, err error)
	DeleteByIDs(ctx context.Context, ids []string) error
	Count(ctx context.Context) (int, error)
}
