package entity

import "time"

// Campaign campaña de prospección creada por un admin y asignada a empresas.
type Campaign struct {
	ID          string
	Name        string
	Description string
	Status      string // draft, active, paused, finished
	StartsAt    *time.Time
	EndsAt      *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CampaignAssignment fila de campaign_company_assignments.
type CampaignAssignment struct {
	CampaignID string
	CompanyID  string
	AssignedAt time.Time
}
