package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// FeatureService verifica qué flags tiene activos una empresa.
// Es el único punto de la aplicación que conoce la caché de flags.
type FeatureService struct {
	companyRepo repository.CompanyRepository
	cache       ports.FeatureCache
	log         *logger.Logger
}

// NewFeatureService construye el servicio de flags. cache puede ser nil (lectura directa).
func NewFeatureService(companyRepo repository.CompanyRepository, cache ports.FeatureCache, log *logger.Logger) *FeatureService {
	if log == nil {
		log = logger.Nop()
	}
	return &FeatureService{companyRepo: companyRepo, cache: cache, log: log.Component("features")}
}

// Get devuelve los flags de la empresa, primero desde la caché.
// Un fallo de la caché se registra y se lee de la base.
func (s *FeatureService) Get(ctx context.Context, companyID string) (*entity.CompanyFeatures, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company_id es obligatorio", domain.ErrInvalidInput)
	}
	if s.cache != nil {
		f, ok, err := s.cache.Get(ctx, companyID)
		if err != nil {
			s.log.Warn().Err(err).Str("company_id", companyID).Msg("caché de flags no disponible")
		} else if ok {
			return f, nil
		}
	}
	f, err := s.companyRepo.GetFeatures(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, domain.ErrNotFound
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, *f); err != nil {
			s.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo cachear flags")
		}
	}
	return f, nil
}

// IsEnabled informa si la empresa tiene el flag activo.
// Devuelve false (sin error) si la empresa no existe.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *FeatureService) IsEnabled(ctx context.Context, companyID, feature string) (bool, error) {
	if companyID == "" || feature == "" {
		return false, fmt.Errorf("features: companyID y feature son obligatorios")
	}
	f, err := s.Get(ctx, companyID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return f.Enabled(feature), nil
}

// Update cambia los flags de una empresa e invalida solo su entrada de caché.
func (s *FeatureService) Update(ctx context.Context, companyID string, in dto.UpdateFeaturesRequest) (*entity.CompanyFeatures, error) {
	current, err := s.companyRepo.GetFeatures(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	next := *current
	if in.GoogleJobsEnabled != nil {
		next.GoogleJobsEnabled = *in.GoogleJobsEnabled
	}
	if next == *current {
		return current, nil
	}
	if err := s.companyRepo.SetFeatures(ctx, next); err != nil {
		return nil, err
	}
	s.Invalidate(ctx, companyID)
	s.log.Info().Str("company_id", companyID).Bool("google_jobs_enabled", next.GoogleJobsEnabled).Msg("flags actualizados")
	return &next, nil
}

// Invalidate descarta la entrada de caché de una empresa. Lo llama también el listener
// de company_features cuando el cambio se hizo fuera de la API.
func (s *FeatureService) Invalidate(ctx context.Context, companyID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, companyID); err != nil {
		s.log.Warn().Err(err).Str("company_id", companyID).Msg("no se pudo invalidar la caché de flags")
	}
}

// InvalidateAll vacía la caché de flags. El listener lo llama al reconectar porque
// los cambios hechos mientras estaba caído no se notificaron.
func (s *FeatureService) InvalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo vaciar la caché de flags")
	}
}
