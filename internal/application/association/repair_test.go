package association_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/testutil/fakes"
)

func newService(db *fakes.DB, tx fakes.TxRunner) (*association.RepairService, *fakes.Metrics) {
	m := fakes.NewMetrics()
	svc := association.NewRepairService(
		fakes.UserRepo{DB: db},
		fakes.CompanyRepo{DB: db},
		fakes.CompanyUserRepo{DB: db},
		tx,
		nil,
		m,
	)
	return svc, m
}

func seedUser(db *fakes.DB, id string) {
	db.Users[id] = &entity.User{ID: id, Email: id + "@acme.test", Status: entity.UserStatusActive}
}

func TestEnsureAssociation_ExistenteNoSeToca(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	db.Companies["c1"] = &entity.Company{ID: "c1", Name: "Acme"}
	db.Links = []entity.CompanyUser{{ID: "l1", UserID: "u1", CompanyID: "c1", Role: "manager"}}
	svc, m := newService(db, fakes.TxRunner{DB: db})

	cu, created, err := svc.EnsureAssociation(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "l1", cu.ID)
	assert.Len(t, db.Links, 1)
	assert.Zero(t, m.Repairs["created"])
}

func TestEnsureAssociation_SinAsociacion_UsaEmpresaMasAntigua(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Companies["nueva"] = &entity.Company{ID: "nueva", Name: "Nueva", CreatedAt: old.AddDate(1, 0, 0)}
	db.Companies["vieja"] = &entity.Company{ID: "vieja", Name: "Vieja", CreatedAt: old}
	svc, m := newService(db, fakes.TxRunner{DB: db})

	cu, created, err := svc.EnsureAssociation(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "vieja", cu.CompanyID)
	assert.Equal(t, "customer", cu.Role)
	assert.True(t, cu.IsPrimaryCompany)
	assert.False(t, cu.IsAdmin)
	assert.Len(t, db.Companies, 2, "no debe crear empresa si ya existe alguna")
	assert.Equal(t, 1, m.Repairs["created"])
}

func TestEnsureAssociation_AsignacionConcurrenteNoSePisa(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	db.Companies["vieja"] = &entity.Company{ID: "vieja", Name: "Vieja", CreatedAt: old}
	db.Companies["x"] = &entity.Company{ID: "x", Name: "X", CreatedAt: old.AddDate(1, 0, 0)}

	links := fakes.CompanyUserRepo{DB: db}
	tx := fakes.TxRunner{DB: db, Before: func() {
		// un admin asigna al usuario como manager de X entre la lectura y la tx de reparación
		require.NoError(t, links.Upsert(context.Background(), &entity.CompanyUser{
			ID: "admin-link", UserID: "u1", CompanyID: "x", Role: "manager",
		}))
	}}
	svc, m := newService(db, tx)

	cu, created, err := svc.EnsureAssociation(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "x", cu.CompanyID)
	assert.Equal(t, "manager", cu.Role)

	require.Len(t, db.Links, 1)
	assert.Equal(t, "x", db.Links[0].CompanyID)
	assert.Equal(t, "manager", db.Links[0].Role)
	assert.Zero(t, m.Repairs["created"])
}

func TestEnsureAssociation_SinEmpresas_CreaDefaultCompany(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	svc, _ := newService(db, fakes.TxRunner{DB: db})

	cu, created, err := svc.EnsureAssociation(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, db.Companies, 1)
	c := db.Companies[cu.CompanyID]
	require.NotNil(t, c)
	assert.Equal(t, entity.DefaultCompanyName, c.Name)

	// Idempotente: la segunda llamada no crea nada.
	_, created, err = svc.EnsureAssociation(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, db.Companies, 1)
	assert.Len(t, db.Links, 1)
}

func TestEnsureAssociation_FalloTx_RetornaError(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	svc, _ := newService(db, fakes.TxRunner{DB: db, Err: fakes.ErrBoom})

	_, _, err := svc.EnsureAssociation(context.Background(), "u1")
	assert.ErrorIs(t, err, fakes.ErrBoom)
}

func TestEnsureQuiet_TragaErrores(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	svc, _ := newService(db, fakes.TxRunner{DB: db, Err: fakes.ErrBoom})

	assert.Nil(t, svc.EnsureQuiet(context.Background(), "u1"))
}

func TestCollapseDuplicates_ConservaAdmin(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	db.Links = []entity.CompanyUser{
		{ID: "a", UserID: "u1", CompanyID: "c1", Role: "customer"},
		{ID: "b", UserID: "u1", CompanyID: "c2", Role: "manager"},
		{ID: "c", UserID: "u1", CompanyID: "c3", Role: "customer", IsAdmin: true},
		{ID: "x", UserID: "otro", CompanyID: "c1", Role: "customer"},
	}
	svc, m := newService(db, fakes.TxRunner{DB: db})

	removed, err := svc.CollapseDuplicates(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	rows, _ := fakes.CompanyUserRepo{DB: db}.ListByUser(context.Background(), "u1")
	require.Len(t, rows, 1)
	assert.Equal(t, "c", rows[0].ID)
	assert.Len(t, db.Links, 2, "las filas de otros usuarios no se tocan")
	assert.Equal(t, 2, m.Repairs["collapsed"])
}

func TestCollapseDuplicates_UnaFila_NoHaceNada(t *testing.T) {
	db := fakes.NewDB()
	db.Links = []entity.CompanyUser{{ID: "a", UserID: "u1", CompanyID: "c1"}}
	svc, _ := newService(db, fakes.TxRunner{DB: db, Err: fakes.ErrBoom})

	removed, err := svc.CollapseDuplicates(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRepairAll_Success(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	seedUser(db, "u2")
	seedUser(db, "u3")
	db.Companies["c1"] = &entity.Company{ID: "c1", Name: "Acme"}
	db.Links = []entity.CompanyUser{
		{ID: "a", UserID: "u1", CompanyID: "c1", Role: "manager"},
		{ID: "b", UserID: "u1", CompanyID: "c1", Role: "customer"},
		{ID: "c", UserID: "u2", CompanyID: "c1", Role: "customer"},
	}
	svc, _ := newService(db, fakes.TxRunner{DB: db})

	rep, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "success", rep.Status)
	assert.Equal(t, 2, rep.Repairs, "un duplicado colapsado y una asociación creada")
	assert.Equal(t, 1, rep.Companies)
	assert.Equal(t, 3, rep.Associations)
	assert.NotEmpty(t, rep.Message)
}

func TestRepairAll_ErrorPorUsuario_Partial(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	svc, _ := newService(db, fakes.TxRunner{DB: db, Err: fakes.ErrBoom})

	rep, err := svc.RepairAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "partial", rep.Status)
	assert.Zero(t, rep.Repairs)
	assert.Contains(t, rep.Message, "1 usuarios con error")
}

func TestRepairAll_ContextoCancelado(t *testing.T) {
	db := fakes.NewDB()
	seedUser(db, "u1")
	svc, _ := newService(db, fakes.TxRunner{DB: db})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.RepairAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
