package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

// UserUseCase administración de usuarios: directorio, rol directo y empresa.
type UserUseCase struct {
	repo        repository.UserRepository
	companyRepo repository.CompanyRepository
	linkRepo    repository.CompanyUserRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, companyRepo repository.CompanyRepository, linkRepo repository.CompanyUserRepository) *UserUseCase {
	return &UserUseCase{repo: repo, companyRepo: companyRepo, linkRepo: linkRepo}
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(user), nil
}

// Directory listado desnormalizado usuario + empresa + rol (get-all-users).
// Role es el rol resuelto con la misma precedencia que el login.
func (uc *UserUseCase) Directory(ctx context.Context, page dto.PageRequest) (*dto.UserDirectoryResponse, error) {
	page.Normalize()
	rows, err := uc.repo.ListDirectory(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserDirectoryItem, 0, len(rows))
	for _, r := range rows {
		var links []entity.CompanyUser
		if r.CompanyID != "" {
			links = []entity.CompanyUser{{UserID: r.UserID, CompanyID: r.CompanyID, Role: r.CompanyRole, IsAdmin: r.IsAdmin}}
		}
		role := access.ResolveRole(&entity.User{ID: r.UserID, Superadmin: r.Superadmin}, r.DirectRole, links)
		if !role.Valid() {
			role = access.RoleCustomer
		}
		items = append(items, dto.UserDirectoryItem{
			ID:          r.UserID,
			Email:       r.Email,
			Name:        r.Name,
			Status:      r.Status,
			Superadmin:  r.Superadmin,
			Role:        role.String(),
			DirectRole:  r.DirectRole,
			CompanyID:   r.CompanyID,
			CompanyName: r.CompanyName,
			CompanyRole: r.CompanyRole,
			IsAdmin:     r.IsAdmin,
			CreatedAt:   r.CreatedAt,
		})
	}
	return &dto.UserDirectoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// SetRole asigna el rol directo del usuario. El cambio se ve en el siguiente login.
func (uc *UserUseCase) SetRole(ctx context.Context, userID string, in dto.SetRoleRequest) error {
	role := access.ParseRole(in.Role)
	if !role.Valid() {
		return fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.SetDirectRole(ctx, userID, role.String())
}

// AssignCompany asocia al usuario con su única empresa (reemplaza la anterior).
func (uc *UserUseCase) AssignCompany(ctx context.Context, userID string, in dto.AssignCompanyRequest) error {
	role := access.ParseRole(in.Role)
	if in.Role == "" {
		role = access.RoleCustomer
	}
	if !role.Valid() {
		return fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	company, err := uc.companyRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.ErrNotFound
	}
	return uc.linkRepo.Upsert(ctx, &entity.CompanyUser{
		ID:               uuid.New().String(),
		UserID:           userID,
		CompanyID:        company.ID,
		Role:             role.String(),
		IsAdmin:          in.IsAdmin,
		IsPrimaryCompany: true,
		KPIEnabled:       in.KPIEnabled,
		CreatedAt:        time.Now(),
	})
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Status:     u.Status,
		Superadmin: u.Superadmin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
