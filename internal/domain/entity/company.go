package entity

import "time"

// Company representa una organización/tenant del sistema.
type Company struct {
	ID                string
	Name              string
	ContactEmail      string
	Phone             string
	Address           string
	City              string
	Country           string
	Status            string // active, suspended, inactive
	GoogleJobsEnabled bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DefaultCompanyName nombre de la empresa que crea la reparación cuando no existe ninguna.
const DefaultCompanyName = "Default Company"

// Feature flags por empresa (columna booleana en companies).
const (
	FeatureGoogleJobs = "google_jobs"
)

// CompanyFeatures vista de los flags de una empresa.
type CompanyFeatures struct {
	CompanyID         string `json:"company_id"`
	GoogleJobsEnabled bool   `json:"google_jobs_enabled"`
}

// Enabled informa si el flag indicado está activo. Flags desconocidos se consideran apagados.
func (f CompanyFeatures) Enabled(feature string) bool {
	switch feature {
	case FeatureGoogleJobs:
		return f.GoogleJobsEnabled
	default:
		return false
	}
}
