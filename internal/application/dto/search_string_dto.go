package dto

import "time"

// CreateSearchStringRequest crea un search string a partir de texto o de un sitio web.
// Para PDF el cliente sube el archivo al storage y llama a process-pdf.
type CreateSearchStringRequest struct {
	Type        string `json:"type"`         // recruiting | lead
	InputSource string `json:"input_source"` // text | website | pdf
	InputText   string `json:"input_text"`
	InputURL    string `json:"input_url"`
	PDFPath     string `json:"pdf_path"`
}

// SearchStringResponse salida de un search string.
type SearchStringResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	Type            string    `json:"type"`
	InputSource     string    `json:"input_source"`
	InputURL        string    `json:"input_url,omitempty"`
	PDFPath         string    `json:"pdf_path,omitempty"`
	GeneratedString string    `json:"generated_string,omitempty"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UploadPDFResponse ruta del PDF en el storage, lista para process-pdf.
type UploadPDFResponse struct {
	PDFPath string `json:"pdf_path"`
}
