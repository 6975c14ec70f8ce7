package repository

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// CampaignRepository define el puerto de persistencia para campañas y sus asignaciones.
type CampaignRepository interface {
	Create(ctx context.Context, c *entity.Campaign) error
	GetByID(ctx context.Context, id string) (*entity.Campaign, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Campaign, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Campaign, error)
	// Assign es idempotente: reasignar una empresa ya asignada no falla.
	Assign(ctx context.Context, campaignID string, companyIDs []string) error
	Unassign(ctx context.Context, campaignID, companyID string) error
	ListAssignments(ctx context.Context, campaignID string) ([]entity.CampaignAssignment, error)
}
