package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// MonthlyRevenueResult total de un mes (period = primer día del mes).
type MonthlyRevenueResult struct {
	Period time.Time
	Amount decimal.Decimal
}

// CustomerRevenueResult total acumulado de un cliente en el período.
type CustomerRevenueResult struct {
	CustomerName string
	Amount       decimal.Decimal
	Months       int
}

// RevenueRepository consultas de customer_revenue. Las de agregación son read-only.
type RevenueRepository interface {
	Create(ctx context.Context, r *entity.CustomerRevenue) error

	// GetTotal suma los ingresos de la empresa en [from, to]. Cero si no hay filas.
	GetTotal(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error)
	// GetMonthly devuelve la serie mensual ordenada por período ascendente.
	GetMonthly(ctx context.Context, companyID string, from, to time.Time) ([]MonthlyRevenueResult, error)
	// GetTopCustomers devuelve los `limit` clientes con más ingresos en el período.
	GetTopCustomers(ctx context.Context, companyID string, from, to time.Time, limit int) ([]CustomerRevenueResult, error)
}
