package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, access.RoleAdmin, access.ParseRole(" Admin "))
	assert.Equal(t, access.RoleManager, access.ParseRole("manager"))
	assert.Equal(t, access.RoleCustomer, access.ParseRole("CUSTOMER"))
	assert.Equal(t, access.RoleNone, access.ParseRole("bodeguero"))
	assert.Equal(t, access.RoleNone, access.ParseRole(""))
}

func TestResolveRole_Precedencia(t *testing.T) {
	managerRow := []entity.CompanyUser{{UserID: "u1", CompanyID: "c1", Role: "manager"}}

	cases := []struct {
		name   string
		user   *entity.User
		direct string
		rows   []entity.CompanyUser
		want   access.Role
	}{
		{"superadmin gana a todo", &entity.User{Superadmin: true}, "customer", managerRow, access.RoleAdmin},
		{"rol directo gana a la empresa", &entity.User{}, "customer", managerRow, access.RoleCustomer},
		{"rol directo inválido cae a la empresa", &entity.User{}, "root", managerRow, access.RoleManager},
		{"rol de empresa desconocido → customer", &entity.User{}, "", []entity.CompanyUser{{Role: "owner"}}, access.RoleCustomer},
		{"sin fuentes → none", &entity.User{}, "", nil, access.RoleNone},
		{"usuario nil usa el resto de fuentes", nil, "admin", nil, access.RoleAdmin},
		{"is_admin de empresa no concede admin de plataforma", &entity.User{}, "", []entity.CompanyUser{{Role: "customer", IsAdmin: true}}, access.RoleCustomer},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, access.ResolveRole(tc.user, tc.direct, tc.rows))
		})
	}
}

func TestCanonicalAssociation_Prioridad(t *testing.T) {
	rows := []entity.CompanyUser{
		{ID: "first", Role: "customer"},
		{ID: "manager", Role: "manager"},
		{ID: "admin", Role: "customer", IsAdmin: true},
		{ID: "admin-manager-late", Role: "manager", IsAdmin: true},
	}
	best := access.CanonicalAssociation(rows)
	require.NotNil(t, best)
	assert.Equal(t, "admin-manager-late", best.ID)

	best = access.CanonicalAssociation(rows[:3])
	assert.Equal(t, "admin", best.ID)

	best = access.CanonicalAssociation(rows[:2])
	assert.Equal(t, "manager", best.ID)

	best = access.CanonicalAssociation([]entity.CompanyUser{{ID: "a", Role: "customer"}, {ID: "b", Role: "customer"}})
	assert.Equal(t, "a", best.ID, "empate → la primera vista")

	assert.Nil(t, access.CanonicalAssociation(nil))
}

func TestSession_FlagsDerivados(t *testing.T) {
	s := access.Session{Authenticated: true, Role: access.RoleManager}
	assert.True(t, s.IsManager())
	assert.False(t, s.IsAdmin())
	assert.False(t, s.IsCustomer())

	s = access.Session{Authenticated: true, Role: access.RoleCustomer, Superadmin: true}
	assert.True(t, s.IsAdmin())
	assert.False(t, s.IsCustomer())

	assert.False(t, access.Anonymous().IsAdmin())
}
