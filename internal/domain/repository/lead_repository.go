package repository

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// LeadFilter filtros opcionales del listado de leads.
type LeadFilter struct {
	Source string
	Status string
	Limit  int
	Offset int
}

// LeadRepository define el puerto de persistencia para Lead. Todas las operaciones van acotadas por empresa.
type LeadRepository interface {
	Create(ctx context.Context, lead *entity.Lead) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error)
	ListByCompany(ctx context.Context, companyID string, f LeadFilter) ([]*entity.Lead, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) error
}
