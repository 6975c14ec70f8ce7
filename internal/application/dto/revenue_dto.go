package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRevenueRequest registra el ingreso mensual de un cliente.
type CreateRevenueRequest struct {
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Period       string          `json:"period"` // YYYY-MM
}

// MonthlyRevenueDTO punto de la serie mensual.
type MonthlyRevenueDTO struct {
	Period string          `json:"period"` // YYYY-MM
	Amount decimal.Decimal `json:"amount"`
}

// TopCustomerDTO cliente con más ingresos en el período.
type TopCustomerDTO struct {
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	Share        decimal.Decimal `json:"share"` // % sobre el total, 2 decimales
	Months       int             `json:"months"`
}

// RevenueSummaryDTO resumen de ingresos de una empresa.
type RevenueSummaryDTO struct {
	CompanyID      string              `json:"company_id"`
	From           time.Time           `json:"from"`
	To             time.Time           `json:"to"`
	Total          decimal.Decimal     `json:"total"`
	MonthlyAverage decimal.Decimal     `json:"monthly_average"`
	Monthly        []MonthlyRevenueDTO `json:"monthly"`
	TopCustomers   []TopCustomerDTO    `json:"top_customers"`
}

// RevenueRangeRequest rango de meses del resumen (YYYY-MM, ambos incluidos).
// Vacío: los últimos 12 meses hasta el mes en curso.
type RevenueRangeRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
}
