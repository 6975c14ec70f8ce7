package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

// CampaignUseCase campañas (admin) y su asignación a empresas.
type CampaignUseCase struct {
	repo        repository.CampaignRepository
	companyRepo repository.CompanyRepository
}

// NewCampaignUseCase construye el caso de uso.
func NewCampaignUseCase(repo repository.CampaignRepository, companyRepo repository.CompanyRepository) *CampaignUseCase {
	return &CampaignUseCase{repo: repo, companyRepo: companyRepo}
}

// Create crea una campaña en borrador.
func (uc *CampaignUseCase) Create(ctx context.Context, in dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at anterior a starts_at", domain.ErrInvalidInput)
	}
	now := time.Now()
	c := &entity.Campaign{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Status:      "draft",
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCampaignResponse(c, nil), nil
}

// List todas las campañas con sus empresas asignadas.
func (uc *CampaignUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.CampaignResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CampaignResponse, 0, len(list))
	for _, c := range list {
		assigned, err := uc.repo.ListAssignments(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *toCampaignResponse(c, assigned))
	}
	return out, nil
}

// ListForCompany campañas asignadas a la empresa del cliente.
func (uc *CampaignUseCase) ListForCompany(ctx context.Context, companyID string) ([]dto.CampaignResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	list, err := uc.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CampaignResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCampaignResponse(c, nil))
	}
	return out, nil
}

// Assign asigna la campaña a las empresas indicadas. Todas deben existir.
func (uc *CampaignUseCase) Assign(ctx context.Context, campaignID string, in dto.AssignCampaignRequest) (*dto.CampaignResponse, error) {
	if len(in.CompanyIDs) == 0 {
		return nil, fmt.Errorf("%w: company_ids vacío", domain.ErrInvalidInput)
	}
	c, err := uc.repo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	for _, id := range in.CompanyIDs {
		company, err := uc.companyRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, id)
		}
	}
	if err := uc.repo.Assign(ctx, campaignID, in.CompanyIDs); err != nil {
		return nil, err
	}
	assigned, err := uc.repo.ListAssignments(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return toCampaignResponse(c, assigned), nil
}

// Unassign quita la campaña a una empresa.
func (uc *CampaignUseCase) Unassign(ctx context.Context, campaignID, companyID string) error {
	c, err := uc.repo.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Unassign(ctx, campaignID, companyID)
}

func toCampaignResponse(c *entity.Campaign, assigned []entity.CampaignAssignment) *dto.CampaignResponse {
	resp := &dto.CampaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Status:      c.Status,
		StartsAt:    c.StartsAt,
		EndsAt:      c.EndsAt,
		CreatedAt:   c.CreatedAt,
	}
	for _, a := range assigned {
		resp.CompanyIDs = append(resp.CompanyIDs, a.CompanyID)
	}
	return resp
}
