package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadColumns = `id, company_id, name, email, phone, organization, source, status, notes, created_at, updated_at`

// LeadRepo leads sobre PostgreSQL; todas las consultas filtran por company_id.
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador.
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Create persiste un lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.Name, l.Email, l.Phone, l.Organization, l.Source, l.Status, l.Notes,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return wrap("insert lead", err)
	}
	return nil
}

// GetByID obtiene un lead de la empresa.
func (r *LeadRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	l, err := scanLead(r.q.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE company_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get lead", err)
	}
	return l, nil
}

// ListByCompany lista con filtros opcionales, más recientes primero.
func (r *LeadRepo) ListByCompany(ctx context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE company_id = $1`
	args := []any{companyID}
	if f.Source != "" {
		args = append(args, f.Source)
		query += fmt.Sprintf(" AND source = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list leads", err)
	}
	defer rows.Close()

	var list []*entity.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, wrap("scan lead", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// UpdateStatus mueve el lead de la empresa a otro estado.
func (r *LeadRepo) UpdateStatus(ctx context.Context, companyID, id, status string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE leads SET status = $3, updated_at = NOW() WHERE company_id = $1 AND id = $2`,
		companyID, id, status,
	)
	if err != nil {
		return wrap("update lead status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanLead(row pgxScanner) (*entity.Lead, error) {
	var l entity.Lead
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.Email, &l.Phone, &l.Organization, &l.Source, &l.Status, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
