package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRevenue ingreso mensual reportado para un cliente de la empresa (tabla customer_revenue).
type CustomerRevenue struct {
	ID           string
	CompanyID    string
	CustomerName string
	Amount       decimal.Decimal
	Period       time.Time // primer día del mes
	CreatedAt    time.Time
}
