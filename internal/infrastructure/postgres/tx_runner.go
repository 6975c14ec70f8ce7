package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ association.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunAssociation inicia una transacción, ejecuta fn con los repos de empresa y asociaciones
// atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunAssociation(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	companyUserRepo repository.CompanyUserRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCompanyRepository(tx), NewCompanyUserRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
