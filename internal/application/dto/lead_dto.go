package dto

import "time"

// CreateLeadRequest entrada para crear un lead.
type CreateLeadRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Organization string `json:"organization"`
	Source       string `json:"source"`
	Notes        string `json:"notes"`
}

// UpdateLeadStatusRequest mueve un lead en el pipeline.
type UpdateLeadStatusRequest struct {
	Status string `json:"status"`
}

// LeadResponse salida de un lead.
type LeadResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Organization string    `json:"organization"`
	Source       string    `json:"source"`
	Status       string    `json:"status"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LeadListResponse lista paginada de leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
