package postgres

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// FeaturesChannel canal de NOTIFY que avisa de cambios de flags (payload = company_id).
const FeaturesChannel = "company_features"

const companyColumns = `id, name, contact_email, phone, address, city, country, status,
	google_jobs_enabled, created_at, updated_at`

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, contact_email, phone, address, city, country, status,
			google_jobs_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.ContactEmail, c.Phone, c.Address, c.City, c.Country, c.Status,
		c.GoogleJobsEnabled, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrap("insert company", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get company", err)
	}
	return c, nil
}

// First la empresa más antigua; a igual fecha decide el id para que el resultado sea estable.
func (r *CompanyRepo) First(ctx context.Context) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at ASC, id ASC LIMIT 1`))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("first company", err)
	}
	return c, nil
}

// Update actualiza los datos de una empresa. Los flags se cambian con SetFeatures.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, contact_email = $3, phone = $4, address = $5, city = $6,
			country = $7, status = $8, updated_at = $9
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.ContactEmail, c.Phone, c.Address, c.City, c.Country, c.Status, c.UpdatedAt,
	)
	if err != nil {
		return wrap("update company", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrap("list companies", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, wrap("scan company", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Count total de empresas.
func (r *CompanyRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&n); err != nil {
		return 0, wrap("count companies", err)
	}
	return n, nil
}

// GetFeatures lee los flags de la empresa.
func (r *CompanyRepo) GetFeatures(ctx context.Context, companyID string) (*entity.CompanyFeatures, error) {
	f := entity.CompanyFeatures{CompanyID: companyID}
	err := r.q.QueryRow(ctx, `SELECT google_jobs_enabled FROM companies WHERE id = $1`, companyID).Scan(&f.GoogleJobsEnabled)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get features", err)
	}
	return &f, nil
}

// SetFeatures actualiza los flags. El trigger companies_features_notify publica el cambio en FeaturesChannel.
func (r *CompanyRepo) SetFeatures(ctx context.Context, f entity.CompanyFeatures) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE companies SET google_jobs_enabled = $2, updated_at = NOW() WHERE id = $1`,
		f.CompanyID, f.GoogleJobsEnabled,
	)
	if err != nil {
		return wrap("set features", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCompany(row pgxScanner) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactEmail, &c.Phone, &c.Address, &c.City, &c.Country, &c.Status,
		&c.GoogleJobsEnabled, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
