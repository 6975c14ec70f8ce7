package postgres

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ repository.CampaignRepository = (*CampaignRepo)(nil)

const campaignColumns = `c.id, c.name, c.description, c.status, c.starts_at, c.ends_at, c.created_at, c.updated_at`

// CampaignRepo campañas y campaign_company_assignments.
type CampaignRepo struct {
	q Querier
}

// NewCampaignRepository construye el adaptador.
func NewCampaignRepository(q Querier) *CampaignRepo {
	return &CampaignRepo{q: q}
}

// Create persiste una campaña.
func (r *CampaignRepo) Create(ctx context.Context, c *entity.Campaign) error {
	query := `
		INSERT INTO campaigns (id, name, description, status, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Description, c.Status, c.StartsAt, c.EndsAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return wrap("insert campaign", err)
	}
	return nil
}

// GetByID obtiene una campaña.
func (r *CampaignRepo) GetByID(ctx context.Context, id string) (*entity.Campaign, error) {
	c, err := scanCampaign(r.q.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns c WHERE c.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get campaign", err)
	}
	return c, nil
}

// List todas las campañas, más recientes primero.
func (r *CampaignRepo) List(ctx context.Context, limit, offset int) ([]*entity.Campaign, error) {
	return r.list(ctx, "list campaigns",
		`SELECT `+campaignColumns+` FROM campaigns c ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListByCompany campañas asignadas a la empresa.
func (r *CampaignRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Campaign, error) {
	return r.list(ctx, "list company campaigns", `
		SELECT `+campaignColumns+`
		FROM campaigns c
		JOIN campaign_company_assignments a ON a.campaign_id = c.id
		WHERE a.company_id = $1
		ORDER BY c.created_at DESC`, companyID)
}

// Assign inserta las asignaciones que falten.
func (r *CampaignRepo) Assign(ctx context.Context, campaignID string, companyIDs []string) error {
	query := `
		INSERT INTO campaign_company_assignments (campaign_id, company_id, assigned_at)
		SELECT $1, unnest($2::uuid[]), NOW()
		ON CONFLICT (campaign_id, company_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, campaignID, companyIDs); err != nil {
		return wrap("assign campaign", err)
	}
	return nil
}

// Unassign quita una asignación.
func (r *CampaignRepo) Unassign(ctx context.Context, campaignID, companyID string) error {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM campaign_company_assignments WHERE campaign_id = $1 AND company_id = $2`,
		campaignID, companyID,
	)
	if err != nil {
		return wrap("unassign campaign", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAssignments empresas asignadas a la campaña.
func (r *CampaignRepo) ListAssignments(ctx context.Context, campaignID string) ([]entity.CampaignAssignment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT campaign_id, company_id, assigned_at
		FROM campaign_company_assignments WHERE campaign_id = $1
		ORDER BY assigned_at`, campaignID)
	if err != nil {
		return nil, wrap("list assignments", err)
	}
	defer rows.Close()
	var out []entity.CampaignAssignment
	for rows.Next() {
		var a entity.CampaignAssignment
		if err := rows.Scan(&a.CampaignID, &a.CompanyID, &a.AssignedAt); err != nil {
			return nil, wrap("scan assignment", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Campaign, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()
	var out []*entity.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, wrap("scan campaign", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCampaign(row pgxScanner) (*entity.Campaign, error) {
	var c entity.Campaign
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &c.StartsAt, &c.EndsAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
