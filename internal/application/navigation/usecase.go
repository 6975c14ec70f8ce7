// Package navigation expone el redirector y las guardas de acceso al cliente.
// El estado anti-bucle vive en un NavigationStore, indexado por montaje de cliente.
package navigation

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// LoopToast mensaje que ve el usuario cuando se desactiva la redirección automática.
const LoopToast = "Demasiados redireccionamientos. La navegación automática se desactivó; recarga la página o vuelve a iniciar sesión."

// Acciones devueltas al cliente.
const (
	ActionNone     = "none"
	ActionNavigate = "navigate"
)

// UseCase casos de uso de navegación.
type UseCase struct {
	redirector *access.Redirector
	store      ports.NavigationStore
	metrics    ports.MetricsRecorder
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. maxAttempts <= 0 usa el valor por defecto del redirector.
func NewUseCase(policy *access.Policy, maxAttempts int, store ports.NavigationStore, metrics ports.MetricsRecorder, log *logger.Logger) *UseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		redirector: access.NewRedirector(policy, maxAttempts),
		store:      store,
		metrics:    metrics,
		log:        log.Component("navigation"),
	}
}

// Policy política de portales en uso.
func (uc *UseCase) Policy() *access.Policy { return uc.redirector.Policy() }

// Resolve evalúa un render del cliente y persiste el estado del montaje.
func (uc *UseCase) Resolve(ctx context.Context, s access.Session, in dto.NavigationRequest) (*dto.NavigationResponse, error) {
	mountID := strings.TrimSpace(in.MountID)
	if mountID == "" {
		return nil, fmt.Errorf("%w: mount_id es obligatorio", domain.ErrInvalidInput)
	}
	st, err := uc.store.Load(ctx, mountID)
	if err != nil {
		return nil, fmt.Errorf("cargar estado de navegación: %w", err)
	}

	before := st
	out := uc.redirector.Step(&st, s, in.Path, in.Loading)
	if st != before {
		if err := uc.store.Save(ctx, mountID, st); err != nil {
			return nil, fmt.Errorf("guardar estado de navegación: %w", err)
		}
	}

	resp := &dto.NavigationResponse{Action: ActionNone, Attempts: out.Attempts, Disabled: out.Disabled}
	switch {
	case out.Navigate:
		resp.Action = ActionNavigate
		resp.Target = out.Target
		uc.metrics.RedirectDecided(ActionNavigate)
	case out.Toast:
		resp.Toast = LoopToast
		uc.metrics.RedirectDecided("disabled")
		uc.log.Warn().
			Str("mount_id", mountID).
			Str("user_id", s.UserID).
			Str("path", in.Path).
			Int("attempts", out.Attempts).
			Msg("bucle de redirección detectado; redirector desactivado")
	}
	return resp, nil
}

// Reset borra el estado del montaje (el componente se volvió a montar).
func (uc *UseCase) Reset(ctx context.Context, mountID string) error {
	mountID = strings.TrimSpace(mountID)
	if mountID == "" {
		return fmt.Errorf("%w: mount_id es obligatorio", domain.ErrInvalidInput)
	}
	return uc.store.Delete(ctx, mountID)
}

// Guard evalúa una guarda con la sesión actual. Roles desconocidos son un error de entrada.
func (uc *UseCase) Guard(s access.Session, in dto.GuardRequest) (*dto.GuardResponse, error) {
	roles, err := ParseRoles(in.AllowedRoles)
	if err != nil {
		return nil, err
	}
	v := access.Authorize(uc.Policy(), s, roles, in.Loading)
	return &dto.GuardResponse{State: string(v.State), Allowed: v.Allowed(), Redirect: v.Redirect}, nil
}

// Session proyecta la sesión para el cliente.
func (uc *UseCase) Session(s access.Session) dto.SessionResponse {
	return dto.NewSessionResponse(uc.Policy(), s)
}

// ParseRoles convierte la lista de roles de una guarda.
func ParseRoles(in []string) ([]access.Role, error) {
	roles := make([]access.Role, 0, len(in))
	for _, r := range in {
		role := access.ParseRole(r)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, r)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
