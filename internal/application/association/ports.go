package association

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios de empresa
// y asociaciones atados a esa tx. Crear la empresa por defecto y asociar al usuario es atómico.
type TxRunner interface {
	RunAssociation(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		companyUserRepo repository.CompanyUserRepository,
	) error) error
}
