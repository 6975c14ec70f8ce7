package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
)

var _ ports.PDFTextExtractor = (*TextExtractor)(nil)

func init() {
	// Sin directorio de configuración en disco; el servidor no escribe en $HOME.
	api.DisableConfigDir()
}

// TextExtractor valida el documento con pdfcpu y extrae el texto con ledongthuc/pdf,
// que decodifica las fuentes (WinAnsi, Identity-H, ToUnicode).
// No hace OCR: un PDF escaneado devuelve texto vacío.
type TextExtractor struct {
	maxPages int
}

// NewTextExtractor maxPages <= 0 lee todas las páginas.
func NewTextExtractor(maxPages int) *TextExtractor {
	return &TextExtractor{maxPages: maxPages}
}

// ExtractText devuelve el texto de las páginas separado por saltos de línea.
func (e *TextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	pages, err := validate(data)
	if err != nil {
		return "", err
	}
	if e.maxPages > 0 && pages > e.maxPages {
		pages = e.maxPages
	}

	r, err := openReader(data)
	if err != nil {
		return "", err
	}
	if n := r.NumPage(); n < pages {
		pages = n
	}

	lines := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("pdf: texto de la página %d: %w", i, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// validate revisa la estructura en modo relajado y devuelve el número de páginas.
func validate(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdf: leer documento: %w", err)
	}
	if err := api.ValidateContext(pdfCtx); err != nil {
		return 0, fmt.Errorf("pdf: documento inválido: %w", err)
	}
	return pdfCtx.PageCount, nil
}

// openReader ledongthuc/pdf entra en pánico con algunos xref corruptos.
func openReader(data []byte) (r *lpdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("pdf: abrir documento: %v", rec)
		}
	}()
	r, err = lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf: abrir documento: %w", err)
	}
	return r, nil
}
