package postgres

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ repository.CompanyUserRepository = (*CompanyUserRepo)(nil)

// CompanyUserRepo asociaciones usuario-empresa sobre PostgreSQL.
type CompanyUserRepo struct {
	q Querier
}

// NewCompanyUserRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyUserRepository(q Querier) *CompanyUserRepo {
	return &CompanyUserRepo{q: q}
}

// ListByUser asociaciones del usuario en orden de creación.
func (r *CompanyUserRepo) ListByUser(ctx context.Context, userID string) ([]entity.CompanyUser, error) {
	query := `
		SELECT id, user_id, company_id, role, is_admin, is_primary_company, kpi_enabled, created_at
		FROM company_users WHERE user_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, wrap("list company_users", err)
	}
	defer rows.Close()

	var out []entity.CompanyUser
	for rows.Next() {
		var cu entity.CompanyUser
		if err := rows.Scan(&cu.ID, &cu.UserID, &cu.CompanyID, &cu.Role, &cu.IsAdmin, &cu.IsPrimaryCompany, &cu.KPIEnabled, &cu.CreatedAt); err != nil {
			return nil, wrap("scan company_user", err)
		}
		out = append(out, cu)
	}
	return out, rows.Err()
}

// Upsert una sola asociación por usuario: si ya existe se reemplazan empresa y rol.
func (r *CompanyUserRepo) Upsert(ctx context.Context, cu *entity.CompanyUser) error {
	query := `
		INSERT INTO company_users (id, user_id, company_id, role, is_admin, is_primary_company, kpi_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			company_id         = EXCLUDED.company_id,
			role               = EXCLUDED.role,
			is_admin           = EXCLUDED.is_admin,
			is_primary_company = EXCLUDED.is_primary_company,
			kpi_enabled        = EXCLUDED.kpi_enabled
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		cu.ID, cu.UserID, cu.CompanyID, cu.Role, cu.IsAdmin, cu.IsPrimaryCompany, cu.KPIEnabled, cu.CreatedAt,
	).Scan(&cu.ID)
	if err != nil {
		return wrap("upsert company_user", err)
	}
	return nil
}

// InsertIfAbsent nunca pisa una asociación existente, a diferencia de Upsert.
func (r *CompanyUserRepo) InsertIfAbsent(ctx context.Context, cu *entity.CompanyUser) (bool, error) {
	query := `
		INSERT INTO company_users (id, user_id, company_id, role, is_admin, is_primary_company, kpi_enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query,
		cu.ID, cu.UserID, cu.CompanyID, cu.Role, cu.IsAdmin, cu.IsPrimaryCompany, cu.KPIEnabled, cu.CreatedAt,
	)
	if err != nil {
		return false, wrap("insert company_user", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DeleteByIDs elimina las filas indicadas.
func (r *CompanyUserRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM company_users WHERE id = ANY($1::uuid[])`, ids); err != nil {
		return wrap("delete company_users", err)
	}
	return nil
}

// Count total de asociaciones.
func (r *CompanyUserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM company_users`).Scan(&n); err != nil {
		return 0, wrap("count company_users", err)
	}
	return n, nil
}
