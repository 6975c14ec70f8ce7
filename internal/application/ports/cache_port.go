package ports

import (
	"context"
	"time"

	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// FeatureCache caché de flags por empresa. Invalidate afecta solo a una empresa;
// InvalidateAll se usa cuando pudieron perderse notificaciones de cambio.
type FeatureCache interface {
	Get(ctx context.Context, companyID string) (*entity.CompanyFeatures, bool, error)
	Set(ctx context.Context, features entity.CompanyFeatures) error
	Invalidate(ctx context.Context, companyID string) error
	InvalidateAll(ctx context.Context) error
}

// NavigationStore estado de navegación por montaje de cliente. Un montaje sin estado empieza de cero.
type NavigationStore interface {
	Load(ctx context.Context, mountID string) (access.NavState, error)
	Save(ctx context.Context, mountID string, st access.NavState) error
	Delete(ctx context.Context, mountID string) error
}

// HeartbeatStore latidos de los jobs del crawler.
type HeartbeatStore interface {
	Beat(ctx context.Context, jobID string, at time.Time) error
	LastBeat(ctx context.Context, jobID string) (time.Time, bool, error)
}
