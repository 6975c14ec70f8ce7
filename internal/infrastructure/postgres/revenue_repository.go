package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
)

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

// RevenueRepo customer_revenue. Las agregaciones son de solo lectura.
// amount es NUMERIC y se lee como decimal.Decimal gracias al codec registrado en el pool.
type RevenueRepo struct {
	q Querier
}

// NewRevenueRepository construye el adaptador.
func NewRevenueRepository(q Querier) *RevenueRepo {
	return &RevenueRepo{q: q}
}

// Create registra un ingreso mensual.
func (r *RevenueRepo) Create(ctx context.Context, rev *entity.CustomerRevenue) error {
	query := `
		INSERT INTO customer_revenue (id, company_id, customer_name, amount, period, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, rev.ID, rev.CompanyID, rev.CustomerName, rev.Amount, rev.Period, rev.CreatedAt)
	if err != nil {
		return wrap("insert customer_revenue", err)
	}
	return nil
}

// GetTotal suma de ingresos en el rango.
func (r *RevenueRepo) GetTotal(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(amount), 0)
	FROM customer_revenue
	WHERE company_id = $1
	  AND period BETWEEN $2 AND $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("revenue.GetTotal: %w", wrap("query", err))
	}
	return total, nil
}

// GetMonthly serie mensual ordenada por período.
func (r *RevenueRepo) GetMonthly(ctx context.Context, companyID string, from, to time.Time) ([]repository.MonthlyRevenueResult, error) {
	const query = `
	SELECT date_trunc('month', period)::date AS month,
	       SUM(amount)                       AS amount
	FROM customer_revenue
	WHERE company_id = $1
	  AND period BETWEEN $2 AND $3
	GROUP BY month
	ORDER BY month`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue.GetMonthly: %w", wrap("query", err))
	}
	defer rows.Close()

	var out []repository.MonthlyRevenueResult
	for rows.Next() {
		var m repository.MonthlyRevenueResult
		if err := rows.Scan(&m.Period, &m.Amount); err != nil {
			return nil, fmt.Errorf("revenue.GetMonthly scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetTopCustomers clientes con más ingresos en el rango.
func (r *RevenueRepo) GetTopCustomers(ctx context.Context, companyID string, from, to time.Time, limit int) ([]repository.CustomerRevenueResult, error) {
	const query = `
	SELECT customer_name,
	       SUM(amount)            AS amount,
	       COUNT(DISTINCT period) AS months
	FROM customer_revenue
	WHERE company_id = $1
	  AND period BETWEEN $2 AND $3
	GROUP BY customer_name
	ORDER BY amount DESC, customer_name
	LIMIT $4`
	rows, err := r.q.Query(ctx, query, companyID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("revenue.GetTopCustomers: %w", wrap("query", err))
	}
	defer rows.Close()

	var out []repository.CustomerRevenueResult
	for rows.Next() {
		var c repository.CustomerRevenueResult
		if err := rows.Scan(&c.CustomerName, &c.Amount, &c.Months); err != nil {
			return nil, fmt.Errorf("revenue.GetTopCustomers scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
