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

// LeadUseCase casos de uso de leads. Todo va acotado por empresa.
type LeadUseCase struct {
	repo repository.LeadRepository
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(repo repository.LeadRepository) *LeadUseCase {
	return &LeadUseCase{repo: repo}
}

// List lista los leads de la empresa con filtros opcionales de origen y estado.
func (uc *LeadUseCase) List(ctx context.Context, companyID, source, status string, page dto.PageRequest) (*dto.LeadListResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	if source != "" && !entity.ValidLeadSource(source) {
		return nil, fmt.Errorf("%w: source %q", domain.ErrInvalidInput, source)
	}
	if status != "" && !entity.ValidLeadStatus(status) {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}
	page.Normalize()
	list, err := uc.repo.ListByCompany(ctx, companyID, repository.LeadFilter{
		Source: source,
		Status: status,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLeadResponse(l))
	}
	return &dto.LeadListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// GoogleJobs leads importados de Google Jobs. El flag de la empresa se comprueba en el router.
func (uc *LeadUseCase) GoogleJobs(ctx context.Context, companyID string, page dto.PageRequest) (*dto.LeadListResponse, error) {
	return uc.List(ctx, companyID, entity.LeadSourceGoogleJobs, "", page)
}

// Create crea un lead en estado new.
func (uc *LeadUseCase) Create(ctx context.Context, companyID string, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	source := in.Source
	if source == "" {
		source = entity.LeadSourceManual
	}
	if !entity.ValidLeadSource(source) {
		return nil, fmt.Errorf("%w: source %q", domain.ErrInvalidInput, source)
	}
	now := time.Now()
	lead := &entity.Lead{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         name,
		Email:        strings.TrimSpace(in.Email),
		Phone:        in.Phone,
		Organization: in.Organization,
		Source:       source,
		Status:       entity.LeadStatusNew,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, lead); err != nil {
		return nil, err
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

// UpdateStatus mueve el lead en el pipeline.
func (uc *LeadUseCase) UpdateStatus(ctx context.Context, companyID, id string, in dto.UpdateLeadStatusRequest) (*dto.LeadResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	if !entity.ValidLeadStatus(in.Status) {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidInput, in.Status)
	}
	if err := uc.repo.UpdateStatus(ctx, companyID, id, in.Status); err != nil {
		return nil, err
	}
	lead, err := uc.repo.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, domain.ErrNotFound
	}
	resp := toLeadResponse(lead)
	return &resp, nil
}

func toLeadResponse(l *entity.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:           l.ID,
		CompanyID:    l.CompanyID,
		Name:         l.Name,
		Email:        l.Email,
		Phone:        l.Phone,
		Organization: l.Organization,
		Source:       l.Source,
		Status:       l.Status,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
