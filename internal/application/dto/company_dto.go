package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa.
type CreateCompanyRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// UpdateCompanyRequest entrada para actualizar una empresa (campos opcionales).
type UpdateCompanyRequest struct {
	Name         *string `json:"name"`
	ContactEmail *string `json:"contact_email"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Status       *string `json:"status"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ContactEmail      string    `json:"contact_email"`
	Phone             string    `json:"phone"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	Country           string    `json:"country"`
	Status            string    `json:"status"`
	GoogleJobsEnabled bool      `json:"google_jobs_enabled"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// UpdateFeaturesRequest cambia los flags de una empresa.
type UpdateFeaturesRequest struct {
	GoogleJobsEnabled *bool `json:"google_jobs_enabled"`
}
