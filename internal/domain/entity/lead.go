package entity

import "time"

// Orígenes de un lead.
const (
	LeadSourceManual     = "manual"
	LeadSourceWebsite    = "website"
	LeadSourceGoogleJobs = "google_jobs"
)

// Estados del pipeline de leads.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusLost      = "lost"
	LeadStatusWon       = "won"
)

// Lead prospecto comercial que pertenece a una empresa.
type Lead struct {
	ID           string
	CompanyID    string
	Name         string
	Email        string
	Phone        string
	Organization string
	Source       string
	Status       string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidLeadStatus informa si el estado pertenece al pipeline.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusLost, LeadStatusWon:
		return true
	}
	return false
}

// ValidLeadSource informa si el origen es conocido.
func ValidLeadSource(s string) bool {
	switch s {
	case LeadSourceManual, LeadSourceWebsite, LeadSourceGoogleJobs:
		return true
	}
	return false
}
