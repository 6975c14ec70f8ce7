package dto

import "time"

// AISearchRequest entrada de ai-search.
type AISearchRequest struct {
	Query string `json:"query"`
}

// AISearchResponse salida de ai-search: answer o error.
type AISearchResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ScrapeRequest entrada de website-scraper.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// ScrapeResponse salida de website-scraper.
type ScrapeResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	Domain  string `json:"domain,omitempty"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProcessPDFRequest entrada de process-pdf.
type ProcessPDFRequest struct {
	PDFPath        string `json:"pdf_path"`
	SearchStringID string `json:"search_string_id"`
}

// ProcessPDFResponse salida de process-pdf.
type ProcessPDFResponse struct {
	Success        bool   `json:"success"`
	SearchStringID string `json:"search_string_id"`
	TextLength     int    `json:"text_length"`
	Status         string `json:"status"`
	Error          string `json:"error,omitempty"`
}

// RepairReport salida de repair-company-associations.
type RepairReport struct {
	Status       string `json:"status"`
	Companies    int    `json:"companies"`
	Associations int    `json:"associations"`
	Repairs      int    `json:"repairs"`
	Message      string `json:"message"`
}

// HeartbeatRequest entrada de website-crawler-heartbeat.
type HeartbeatRequest struct {
	JobID string `json:"jobId"`
}

// HeartbeatResponse salida de website-crawler-heartbeat.
type HeartbeatResponse struct {
	JobID     string    `json:"jobId"`
	Alive     bool      `json:"alive"`
	Timestamp time.Time `json:"timestamp"`
}
