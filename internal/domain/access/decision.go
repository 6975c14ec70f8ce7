package access

// Decide calcula a dónde debe ir la sesión desde la ruta actual.
// Devuelve ok=false cuando la ruta es adecuada. Primera regla que aplica gana:
//
//	a. sin sesión fuera de una ruta pública        → login
//	b. superadmin fuera del portal admin            → dashboard admin
//	c. con sesión en una ruta pública               → dashboard del rol
//	d. con sesión en el portal de otro rol          → dashboard del rol
func Decide(p *Policy, s Session, path string) (target string, ok bool) {
	path = NormalizePath(path)

	if !s.Authenticated {
		if p.IsPublic(path) {
			return "", false
		}
		return p.LoginPath, true
	}

	if s.Superadmin {
		home, _ := p.portal(p.SuperadminRole)
		if underPrefix(path, home.Prefix) {
			return "", false
		}
		return home.Dashboard, true
	}

	role := s.EffectiveRole(p.DefaultRole)
	if p.IsPublic(path) {
		return p.Dashboard(role), true
	}
	if pt, found := p.PortalFor(path); found && pt.Role != role {
		return p.Dashboard(role), true
	}
	return "", false
}
