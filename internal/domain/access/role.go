// Package access contiene la política de portales por rol: resolución de rol,
// decisión de redirección, protección contra bucles y guardas de ruta.
// Todo es puro: no hace I/O y no conoce HTTP.
package access

import (
	"strings"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// Role rol de portal resuelto para un usuario.
type Role string

// Roles de portal. RoleNone significa que ninguna fuente aportó un rol.
const (
	RoleNone     Role = ""
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleCustomer Role = "customer"
)

// ParseRole normaliza un rol leído de la base o de un token. Valores desconocidos → RoleNone.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RoleCustomer:
		return RoleCustomer
	default:
		return RoleNone
	}
}

// Valid informa si el rol es uno de los tres roles de portal.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleCustomer
}

func (r Role) String() string { return string(r) }

// ResolveRole determina el único rol de portal de un usuario.
//
// Precedencia:
//  1. capacidad superadmin en el usuario → admin
//  2. rol directo (user_roles), si es válido
//  3. rol de la asociación canónica en company_users (ver CanonicalAssociation)
//  4. ninguno → RoleNone (el llamador aplica el rol por defecto de la política)
//
// El flag is_admin de company_users identifica al administrador de la empresa
// cliente y no concede el portal admin de la plataforma.
func ResolveRole(user *entity.User, directRole string, rows []entity.CompanyUser) Role {
	if user != nil && user.Superadmin {
		return RoleAdmin
	}
	if r := ParseRole(directRole); r.Valid() {
		return r
	}
	if best := CanonicalAssociation(rows); best != nil {
		if r := ParseRole(best.Role); r.Valid() {
			return r
		}
		return RoleCustomer
	}
	return RoleNone
}

// CanonicalAssociation elige la asociación que se conserva cuando un usuario tiene varias:
// primero is_admin, luego role == manager, luego la primera vista. Devuelve nil si no hay filas.
func CanonicalAssociation(rows []entity.CompanyUser) *entity.CompanyUser {
	if len(rows) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(rows); i++ {
		if associationRank(rows[i]) > associationRank(rows[best]) {
			best = i
		}
	}
	return &rows[best]
}

func associationRank(cu entity.CompanyUser) int {
	rank := 0
	if cu.IsAdmin {
		rank += 2
	}
	if ParseRole(cu.Role) == RoleManager {
		rank++
	}
	return rank
}
