package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
)

// ScraperUseCase website-scraper: descarga una página y devuelve su texto visible.
type ScraperUseCase struct {
	fetcher ports.PageFetcher
}

// NewScraperUseCase construye el caso de uso.
func NewScraperUseCase(fetcher ports.PageFetcher) *ScraperUseCase {
	return &ScraperUseCase{fetcher: fetcher}
}

// Scrape valida la URL (solo http/https) y extrae el texto.
func (uc *ScraperUseCase) Scrape(ctx context.Context, req dto.ScrapeRequest) (*dto.ScrapeResponse, error) {
	raw, err := ValidateScrapeURL(req.URL)
	if err != nil {
		return nil, err
	}
	page, err := uc.fetcher.Fetch(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return &dto.ScrapeResponse{Success: true, Text: page.Text, Domain: page.Domain, URL: page.URL}, nil
}

// ValidateScrapeURL normaliza la URL. Sin esquema se asume https.
func ValidateScrapeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: url es obligatoria", domain.ErrInvalidInput)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: url inválida", domain.ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: solo se admiten URLs http o https", domain.ErrInvalidInput)
	}
	return u.String(), nil
}
