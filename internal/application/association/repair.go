// Package association mantiene la regla "una empresa por usuario": crea la asociación
// que falta y colapsa las duplicadas heredadas.
package association

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// RepairService repara asociaciones usuario-empresa.
type RepairService struct {
	users     repository.UserRepository
	companies repository.CompanyRepository
	links     repository.CompanyUserRepository
	tx        TxRunner
	log       *logger.Logger
	metrics   ports.MetricsRecorder
	now       func() time.Time
}

// NewRepairService construye el servicio. log y metrics pueden ser nil.
func NewRepairService(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	links repository.CompanyUserRepository,
	tx TxRunner,
	log *logger.Logger,
	metrics ports.MetricsRecorder,
) *RepairService {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RepairService{
		users:     users,
		companies: companies,
		links:     links,
		tx:        tx,
		log:       log.Component("association"),
		metrics:   metrics,
		now:       time.Now,
	}
}

// EnsureAssociation devuelve la asociación canónica del usuario. Si no tiene ninguna la crea
// contra la empresa más antigua; si no existe ninguna empresa crea antes la empresa por defecto.
// created indica si hubo reparación.
func (s *RepairService) EnsureAssociation(ctx context.Context, userID string) (cu *entity.CompanyUser, created bool, err error) {
	rows, err := s.links.ListByUser(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("listar asociaciones: %w", err)
	}
	if best := access.CanonicalAssociation(rows); best != nil {
		return best, false, nil
	}

	now := s.now()
	err = s.tx.RunAssociation(ctx, func(companyRepo repository.CompanyRepository, linkRepo repository.CompanyUserRepository) error {
		company, err := companyRepo.First(ctx)
		if err != nil {
			return err
		}
		if company == nil {
			company = &entity.Company{
				ID:        uuid.New().String(),
				Name:      entity.DefaultCompanyName,
				Status:    "active",
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := companyRepo.Create(ctx, company); err != nil {
				return err
			}
			s.log.Info().Str("company_id", company.ID).Msg("empresa por defecto creada")
		}
		cu = &entity.CompanyUser{
			ID:               uuid.New().String(),
			UserID:           userID,
			CompanyID:        company.ID,
			Role:             string(access.RoleCustomer),
			IsPrimaryCompany: true,
			CreatedAt:        now,
		}
		// Entre la lectura inicial y esta tx otra petición (AssignCompany) pudo asociar
		// al usuario: esa fila gana y nunca se sobreescribe desde aquí.
		created, err = linkRepo.InsertIfAbsent(ctx, cu)
		if err != nil || created {
			return err
		}
		rows, err := linkRepo.ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		cu = access.CanonicalAssociation(rows)
		if cu == nil {
			return fmt.Errorf("asociación de %s desapareció durante la reparación", userID)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("crear asociación: %w", err)
	}
	if !created {
		s.log.Debug().Str("user_id", userID).Str("company_id", cu.CompanyID).Msg("asociación creada por otra petición")
		return cu, false, nil
	}

	s.metrics.AssociationRepaired("created", 1)
	s.log.Info().Str("user_id", userID).Str("company_id", cu.CompanyID).Msg("asociación creada por reparación")
	return cu, true, nil
}

// EnsureQuiet es el camino reactivo: cualquier fallo se registra y se traga.
// Devuelve nil si no hay asociación utilizable.
func (s *RepairService) EnsureQuiet(ctx context.Context, userID string) *entity.CompanyUser {
	cu, _, err := s.EnsureAssociation(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudo reparar la asociación; se continúa sin empresa")
		return nil
	}
	return cu
}

// CollapseDuplicates conserva la mejor asociación (is_admin, luego manager, luego la primera)
// y elimina el resto. Devuelve cuántas filas se eliminaron.
func (s *RepairService) CollapseDuplicates(ctx context.Context, userID string) (int, error) {
	rows, err := s.links.ListByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listar asociaciones: %w", err)
	}
	if len(rows) <= 1 {
		return 0, nil
	}
	keep := access.CanonicalAssociation(rows)
	drop := make([]string, 0, len(rows)-1)
	for _, r := range rows {
		if r.ID != keep.ID {
			drop = append(drop, r.ID)
		}
	}

	err = s.tx.RunAssociation(ctx, func(_ repository.CompanyRepository, linkRepo repository.CompanyUserRepository) error {
		return linkRepo.DeleteByIDs(ctx, drop)
	})
	if err != nil {
		return 0, fmt.Errorf("colapsar asociaciones: %w", err)
	}

	s.metrics.AssociationRepaired("collapsed", len(drop))
	s.log.Info().
		Str("user_id", userID).
		Str("kept", keep.ID).
		Int("removed", len(drop)).
		Msg("asociaciones duplicadas colapsadas")
	return len(drop), nil
}

// RepairAll recorre todos los usuarios: colapsa duplicadas y crea las que faltan.
// Un fallo en un usuario no detiene al resto; el estado queda en "partial".
func (s *RepairService) RepairAll(ctx context.Context) (*dto.RepairReport, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}

	repairs, failures := 0, 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		removed, err := s.CollapseDuplicates(ctx, id)
		if err != nil {
			failures++
			s.log.Error().Err(err).Str("user_id", id).Msg("reparación: colapso fallido")
			continue
		}
		repairs += removed

		_, created, err := s.EnsureAssociation(ctx, id)
		if err != nil {
			failures++
			s.log.Error().Err(err).Str("user_id", id).Msg("reparación: asociación fallida")
			continue
		}
		if created {
			repairs++
		}
	}

	companies, err := s.companies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar empresas: %w", err)
	}
	associations, err := s.links.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("contar asociaciones: %w", err)
	}

	report := &dto.RepairReport{
		Status:       "success",
		Companies:    companies,
		Associations: associations,
		Repairs:      repairs,
		Message:      fmt.Sprintf("%d usuarios revisados, %d reparaciones", len(ids), repairs),
	}
	if failures > 0 {
		report.Status = "partial"
		report.Message = fmt.Sprintf("%s, %d usuarios con error", report.Message, failures)
	}
	return report, nil
}
