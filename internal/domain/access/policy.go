package access

import (
	"fmt"
	"strings"
)

// Portal ruta raíz y dashboard de un rol.
type Portal struct {
	Role      Role   `yaml:"role" json:"role"`
	Prefix    string `yaml:"prefix" json:"prefix"`
	Dashboard string `yaml:"dashboard" json:"dashboard"`
}

// Policy tabla de rutas de cliente que gobierna redirecciones y guardas.
type Policy struct {
	LoginPath      string   `yaml:"login_path" json:"login_path"`
	PublicPaths    []string `yaml:"public_paths" json:"public_paths"`
	Portals        []Portal `yaml:"portals" json:"portals"`
	DefaultRole    Role     `yaml:"default_role" json:"default_role"`
	SuperadminRole Role     `yaml:"superadmin_role" json:"superadmin_role"`
}

// DefaultPolicy rutas /admin, /manager y /customer con /, /login y /register públicas.
func DefaultPolicy() *Policy {
	return &Policy{
		LoginPath:   "/login",
		PublicPaths: []string{"/", "/login", "/register"},
		Portals: []Portal{
			{Role: RoleAdmin, Prefix: "/admin", Dashboard: "/admin/dashboard"},
			{Role: RoleManager, Prefix: "/manager", Dashboard: "/manager/dashboard"},
			{Role: RoleCustomer, Prefix: "/customer", Dashboard: "/customer/dashboard"},
		},
		DefaultRole:    RoleCustomer,
		SuperadminRole: RoleAdmin,
	}
}

// Validate comprueba que la política sea coherente antes de usarla.
func (p *Policy) Validate() error {
	if p.LoginPath == "" {
		return fmt.Errorf("access: login_path es obligatorio")
	}
	if !p.IsPublic(p.LoginPath) {
		return fmt.Errorf("access: login_path %q debe ser público", p.LoginPath)
	}
	seen := make(map[Role]bool, len(p.Portals))
	for _, pt := range p.Portals {
		if !pt.Role.Valid() {
			return fmt.Errorf("access: rol de portal inválido %q", pt.Role)
		}
		if seen[pt.Role] {
			return fmt.Errorf("access: portal duplicado para %q", pt.Role)
		}
		seen[pt.Role] = true
		if !strings.HasPrefix(pt.Prefix, "/") || !underPrefix(pt.Dashboard, pt.Prefix) {
			return fmt.Errorf("access: el dashboard %q debe estar bajo %q", pt.Dashboard, pt.Prefix)
		}
	}
	if !seen[p.DefaultRole] {
		return fmt.Errorf("access: default_role %q sin portal", p.DefaultRole)
	}
	if !seen[p.SuperadminRole] {
		return fmt.Errorf("access: superadmin_role %q sin portal", p.SuperadminRole)
	}
	return nil
}

// IsPublic informa si la ruta no requiere sesión.
func (p *Policy) IsPublic(path string) bool {
	path = NormalizePath(path)
	for _, pub := range p.PublicPaths {
		if path == pub {
			return true
		}
	}
	return false
}

// Dashboard ruta de inicio del rol; cae al rol por defecto si el rol no tiene portal.
func (p *Policy) Dashboard(r Role) string {
	if pt, ok := p.portal(r); ok {
		return pt.Dashboard
	}
	if pt, ok := p.portal(p.DefaultRole); ok {
		return pt.Dashboard
	}
	return "/"
}

// PortalFor devuelve el portal cuyo prefijo contiene la ruta.
func (p *Policy) PortalFor(path string) (Portal, bool) {
	path = NormalizePath(path)
	for _, pt := range p.Portals {
		if underPrefix(path, pt.Prefix) {
			return pt, true
		}
	}
	return Portal{}, false
}

func (p *Policy) portal(r Role) (Portal, bool) {
	for _, pt := range p.Portals {
		if pt.Role == r {
			return pt, true
		}
	}
	return Portal{}, false
}

// NormalizePath quita query, fragmento y barra final.
func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// underPrefix compara por segmentos: /admin cubre /admin y /admin/x pero no /administrator.
func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
