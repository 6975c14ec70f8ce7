package entity

import "time"

// Tipos de search string.
const (
	SearchStringRecruiting = "recruiting"
	SearchStringLead       = "lead"
)

// Origen del material con el que se genera el search string.
const (
	SearchSourceText    = "text"
	SearchSourceWebsite = "website"
	SearchSourcePDF     = "pdf"
)

// Estados del procesamiento.
const (
	SearchStatusNew        = "new"
	SearchStatusProcessing = "processing"
	SearchStatusCompleted  = "completed"
	SearchStatusFailed     = "failed"
)

// SearchString cadena booleana de búsqueda generada con IA a partir de texto, web o PDF.
type SearchString struct {
	ID              string
	CompanyID       string
	UserID          string
	Type            string
	InputSource     string
	InputText       string
	InputURL        string
	PDFPath         string
	GeneratedString string
	Status          string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
