package postgres

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ repository.SearchStringRepository = (*SearchStringRepo)(nil)

const searchStringColumns = `id, company_id, user_id, type, input_source, input_text, input_url, pdf_path,
	generated_string, status, error_message, created_at, updated_at`

// SearchStringRepo search_strings sobre PostgreSQL.
type SearchStringRepo struct {
	q Querier
}

// NewSearchStringRepository construye el adaptador.
func NewSearchStringRepository(q Querier) *SearchStringRepo {
	return &SearchStringRepo{q: q}
}

// Create persiste un search string.
func (r *SearchStringRepo) Create(ctx context.Context, s *entity.SearchString) error {
	query := `
		INSERT INTO search_strings (` + searchStringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.UserID, s.Type, s.InputSource, s.InputText, s.InputURL, s.PDFPath,
		s.GeneratedString, s.Status, s.ErrorMessage, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return wrap("insert search_string", err)
	}
	return nil
}

// GetByID obtiene un search string.
func (r *SearchStringRepo) GetByID(ctx context.Context, id string) (*entity.SearchString, error) {
	s, err := scanSearchString(r.q.QueryRow(ctx, `SELECT `+searchStringColumns+` FROM search_strings WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrap("get search_string", err)
	}
	return s, nil
}

// ListByCompany search strings de la empresa, más recientes primero.
func (r *SearchStringRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.SearchString, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+searchStringColumns+` FROM search_strings
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, companyID, limit, offset)
	if err != nil {
		return nil, wrap("list search_strings", err)
	}
	defer rows.Close()
	var out []*entity.SearchString
	for rows.Next() {
		s, err := scanSearchString(rows)
		if err != nil {
			return nil, wrap("scan search_string", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update persiste el material, el resultado y el estado.
func (r *SearchStringRepo) Update(ctx context.Context, s *entity.SearchString) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE search_strings SET input_text = $2, pdf_path = $3, generated_string = $4, status = $5,
			error_message = $6, updated_at = $7
		WHERE id = $1`,
		s.ID, s.InputText, s.PDFPath, s.GeneratedString, s.Status, s.ErrorMessage, s.UpdatedAt,
	)
	if err != nil {
		return wrap("update search_string", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSearchString(row pgxScanner) (*entity.SearchString, error) {
	var s entity.SearchString
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.UserID, &s.Type, &s.InputSource, &s.InputText, &s.InputURL, &s.PDFPath,
		&s.GeneratedString, &s.Status, &s.ErrorMessage, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
