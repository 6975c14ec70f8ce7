package dto

import "time"

// CreateCampaignRequest entrada para crear una campaña.
type CreateCampaignRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// AssignCampaignRequest empresas a las que se asigna la campaña.
type AssignCampaignRequest struct {
	CompanyIDs []string `json:"company_ids"`
}

// CampaignResponse salida de una campaña.
type CampaignResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CompanyIDs  []string   `json:"company_ids,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
