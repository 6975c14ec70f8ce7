package entity

import "time"

// CompanyUser asociación usuario-empresa con el rol dentro de la empresa.
// Un usuario pertenece a una sola empresa (índice único en user_id).
type CompanyUser struct {
	ID               string
	UserID           string
	CompanyID        string
	Role             string
	IsAdmin          bool
	IsPrimaryCompany bool
	KPIEnabled       bool
	CreatedAt        time.Time
}
