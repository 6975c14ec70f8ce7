package access

// GuardState estado de una guarda de ruta.
type GuardState string

const (
	GuardLoading      GuardState = "loading"
	GuardChecking     GuardState = "checking"
	GuardAuthorized   GuardState = "authorized"
	GuardUnauthorized GuardState = "unauthorized"
)

// Verdict decisión única de una guarda: de ella salen tanto el render como la navegación.
type Verdict struct {
	State    GuardState
	Redirect string // solo en GuardUnauthorized
}

// Allowed informa si se deben renderizar los hijos.
func (v Verdict) Allowed() bool { return v.State == GuardAuthorized }

// Conjuntos de roles de las guardas nombradas.
var (
	AdminRoles    = []Role{RoleAdmin}
	ManagerRoles  = []Role{RoleManager}
	CustomerRoles = []Role{RoleCustomer}
)

// Authorize evalúa una guarda. allowed vacío significa "cualquier sesión".
// El superadmin pasa cualquier guarda.
func Authorize(p *Policy, s Session, allowed []Role, loading bool) Verdict {
	if loading {
		return Verdict{State: GuardLoading}
	}
	if !s.Authenticated {
		return Verdict{State: GuardUnauthorized, Redirect: p.LoginPath}
	}
	if s.Superadmin {
		return Verdict{State: GuardAuthorized}
	}
	if s.Pending {
		return Verdict{State: GuardChecking}
	}
	role := s.EffectiveRole(p.DefaultRole)
	if len(allowed) == 0 {
		return Verdict{State: GuardAuthorized}
	}
	for _, r := range allowed {
		if r == role {
			return Verdict{State: GuardAuthorized}
		}
	}
	return Verdict{State: GuardUnauthorized, Redirect: p.Dashboard(role)}
}
