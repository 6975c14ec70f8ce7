package repository

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// First devuelve la empresa más antigua (o nil si no hay ninguna).
	First(ctx context.Context) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Count(ctx context.Context) (int, error)

	// GetFeatures lee los flags de la empresa; nil si la empresa no existe.
	GetFeatures(ctx context.Context, companyID string) (*entity.CompanyFeatures, error)
	// SetFeatures actualiza los flags y notifica el cambio en el canal company_features.
	SetFeatures(ctx context.Context, features entity.CompanyFeatures) error
}
