package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/leadportal-api/internal/domain/access"
)

func TestAuthorize_Estados(t *testing.T) {
	p := access.DefaultPolicy()

	v := access.Authorize(p, authed(access.RoleAdmin), access.AdminRoles, true)
	assert.Equal(t, access.GuardLoading, v.State)
	assert.False(t, v.Allowed())

	v = access.Authorize(p, access.Anonymous(), access.CustomerRoles, false)
	assert.Equal(t, access.GuardUnauthorized, v.State)
	assert.Equal(t, "/login", v.Redirect)

	pending := authed(access.RoleNone)
	pending.Pending = true
	v = access.Authorize(p, pending, access.CustomerRoles, false)
	assert.Equal(t, access.GuardChecking, v.State)

	v = access.Authorize(p, authed(access.RoleManager), access.ManagerRoles, false)
	assert.True(t, v.Allowed())
	assert.Empty(t, v.Redirect)
}

func TestAuthorize_RolNoPermitidoRedirigeASuDashboard(t *testing.T) {
	p := access.DefaultPolicy()

	v := access.Authorize(p, authed(access.RoleCustomer), access.AdminRoles, false)
	assert.Equal(t, access.GuardUnauthorized, v.State)
	assert.Equal(t, "/customer/dashboard", v.Redirect)

	v = access.Authorize(p, authed(access.RoleNone), access.ManagerRoles, false)
	assert.Equal(t, "/customer/dashboard", v.Redirect, "sin rol → customer")

	v = access.Authorize(p, authed(access.RoleNone), access.CustomerRoles, false)
	assert.True(t, v.Allowed())
}

func TestAuthorize_SuperadminPasaCualquierGuarda(t *testing.T) {
	p := access.DefaultPolicy()
	s := access.Session{Authenticated: true, Role: access.RoleCustomer, Superadmin: true}
	for _, roles := range [][]access.Role{access.AdminRoles, access.ManagerRoles, access.CustomerRoles, nil} {
		assert.True(t, access.Authorize(p, s, roles, false).Allowed())
	}
}

func TestAuthorize_MultiRolYVacio(t *testing.T) {
	p := access.DefaultPolicy()
	roles := []access.Role{access.RoleAdmin, access.RoleManager}

	assert.True(t, access.Authorize(p, authed(access.RoleManager), roles, false).Allowed())
	assert.False(t, access.Authorize(p, authed(access.RoleCustomer), roles, false).Allowed())
	assert.True(t, access.Authorize(p, authed(access.RoleCustomer), nil, false).Allowed(), "sin roles → cualquier sesión")
}

func TestPolicy_Validate(t *testing.T) {
	assert.NoError(t, access.DefaultPolicy().Validate())

	p := access.DefaultPolicy()
	p.LoginPath = "/signin"
	assert.Error(t, p.Validate(), "login debe ser pública")

	p = access.DefaultPolicy()
	p.Portals[0].Dashboard = "/dashboard"
	assert.Error(t, p.Validate())

	p = access.DefaultPolicy()
	p.Portals = append(p.Portals, access.Portal{Role: access.RoleAdmin, Prefix: "/root", Dashboard: "/root/x"})
	assert.Error(t, p.Validate())

	p = access.DefaultPolicy()
	p.DefaultRole = "guest"
	assert.Error(t, p.Validate())
}
