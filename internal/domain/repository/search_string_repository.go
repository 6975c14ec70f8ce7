package repository

import (
	"context"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// SearchStringRepository define el puerto de persistencia para search_strings.
type SearchStringRepository interface {
	Create(ctx context.Context, s *entity.SearchString) error
	GetByID(ctx context.Context, id string) (*entity.SearchString, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.SearchString, error)
	// Update persiste input_text, generated_string, status y error_message.
	Update(ctx context.Context, s *entity.SearchString) error
}
