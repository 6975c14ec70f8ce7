package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/testutil/fakes"
)

func newUserUC(db *fakes.DB) *usecase.UserUseCase {
	return usecase.NewUserUseCase(fakes.UserRepo{DB: db}, fakes.CompanyRepo{DB: db}, fakes.CompanyUserRepo{DB: db})
}

func TestUsers_DirectorioResuelveRol(t *testing.T) {
	db := fakes.NewDB()
	db.Users["a"] = &entity.User{ID: "a", Email: "a@x.co", Superadmin: true}
	db.Users["b"] = &entity.User{ID: "b", Email: "b@x.co"}
	db.Users["c"] = &entity.User{ID: "c", Email: "c@x.co"}
	db.Users["d"] = &entity.User{ID: "d", Email: "d@x.co"}
	db.DirectRoles["b"] = "manager"
	db.Companies["c1"] = &entity.Company{ID: "c1", Name: "Acme"}
	db.Links = []entity.CompanyUser{
		{ID: "l1", UserID: "b", CompanyID: "c1", Role: "customer"},
		{ID: "l2", UserID: "c", CompanyID: "c1", Role: "customer", IsAdmin: true},
	}

	out, err := newUserUC(db).Directory(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 4)

	roles := map[string]string{}
	for _, it := range out.Items {
		roles[it.ID] = it.Role
	}
	assert.Equal(t, "admin", roles["a"])
	assert.Equal(t, "manager", roles["b"], "el rol directo gana a la asociación")
	assert.Equal(t, "customer", roles["c"], "is_admin de la empresa no da el portal admin")
	assert.Equal(t, "customer", roles["d"])
	assert.Equal(t, "Acme", out.Items[1].CompanyName)
}

func TestUsers_SetRole(t *testing.T) {
	db := fakes.NewDB()
	db.Users["u"] = &entity.User{ID: "u"}
	uc := newUserUC(db)

	require.NoError(t, uc.SetRole(context.Background(), "u", dto.SetRoleRequest{Role: "Manager"}))
	assert.Equal(t, "manager", db.DirectRoles["u"])

	assert.ErrorIs(t, uc.SetRole(context.Background(), "u", dto.SetRoleRequest{Role: "root"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.SetRole(context.Background(), "x", dto.SetRoleRequest{Role: "admin"}), domain.ErrUserNotFound)
}

func TestUsers_AssignCompanyReemplaza(t *testing.T) {
	db := fakes.NewDB()
	db.Users["u"] = &entity.User{ID: "u"}
	db.Companies["c1"] = &entity.Company{ID: "c1"}
	db.Companies["c2"] = &entity.Company{ID: "c2"}
	uc := newUserUC(db)
	ctx := context.Background()

	require.NoError(t, uc.AssignCompany(ctx, "u", dto.AssignCompanyRequest{CompanyID: "c1"}))
	require.NoError(t, uc.AssignCompany(ctx, "u", dto.AssignCompanyRequest{CompanyID: "c2", Role: "manager"}))

	require.Len(t, db.Links, 1, "una sola empresa por usuario")
	assert.Equal(t, "c2", db.Links[0].CompanyID)
	assert.Equal(t, "manager", db.Links[0].Role)

	assert.ErrorIs(t, uc.AssignCompany(ctx, "u", dto.AssignCompanyRequest{CompanyID: "c9"}), domain.ErrNotFound)
}
