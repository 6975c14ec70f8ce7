package dto

import "github.com/jhoicas/leadportal-api/internal/domain/access"

// SessionResponse sesión resuelta tal como la ve el cliente.
// IsAdmin/IsManager/IsCustomer se derivan del único rol resuelto.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
	CompanyID     string `json:"company_id,omitempty"`
	Role          string `json:"role,omitempty"`
	Superadmin    bool   `json:"superadmin"`
	IsAdmin       bool   `json:"is_admin"`
	IsManager     bool   `json:"is_manager"`
	IsCustomer    bool   `json:"is_customer"`
	Dashboard     string `json:"dashboard,omitempty"`
}

// NavigationRequest un render del cliente: montaje, ruta actual y si la auth sigue cargando.
type NavigationRequest struct {
	MountID string `json:"mount_id"`
	Path    string `json:"path"`
	Loading bool   `json:"loading"`
}

// NavigationResponse acción a ejecutar por el cliente.
type NavigationResponse struct {
	Action   string `json:"action"` // "none" | "navigate"
	Target   string `json:"target,omitempty"`
	Toast    string `json:"toast,omitempty"`
	Attempts int    `json:"attempts"`
	Disabled bool   `json:"disabled"`
}

// NavigationResetRequest se envía al remontar el componente.
type NavigationResetRequest struct {
	MountID string `json:"mount_id"`
}

// GuardRequest consulta de una guarda de ruta.
type GuardRequest struct {
	AllowedRoles []string `json:"allowed_roles"`
	Loading      bool     `json:"loading"`
}

// GuardResponse veredicto único de la guarda.
type GuardResponse struct {
	State    string `json:"state"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// NewSessionResponse proyecta la sesión para el cliente con el dashboard que le corresponde según la política.
func NewSessionResponse(p *access.Policy, s access.Session) SessionResponse {
	if !s.Authenticated {
		return SessionResponse{}
	}
	role := s.EffectiveRole(p.DefaultRole)
	if s.Superadmin {
		role = p.SuperadminRole
	}
	return SessionResponse{
		Authenticated: true,
		UserID:        s.UserID,
		Email:         s.Email,
		CompanyID:     s.CompanyID,
		Role:          role.String(),
		Superadmin:    s.Superadmin,
		IsAdmin:       role == access.RoleAdmin,
		IsManager:     role == access.RoleManager,
		IsCustomer:    role == access.RoleCustomer,
		Dashboard:     p.Dashboard(role),
	}
}
