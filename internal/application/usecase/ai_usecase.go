package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
)

// DefaultAITimeout tope de cada llamada al LLM.
const DefaultAITimeout = 30 * time.Second

// maxMaterialChars recorte del material que se envía para generar un search string.
const maxMaterialChars = 20000

// platformDocs documentación de la plataforma que acompaña a cada consulta de ai-search.
const platformDocs = `Eres el asistente de LeadPortal, una plataforma B2B con tres portales:
- Portal de cliente (/customer): leads de la empresa, campañas asignadas, search strings generados con IA y, si la empresa lo tiene habilitado, leads de Google Jobs.
- Portal de manager (/manager): ingresos por cliente, resumen mensual, informe PDF y leads de todas las empresas.
- Portal de administración (/admin): empresas, usuarios, roles, flags por empresa, campañas y reparación de asociaciones usuario-empresa.
Un search string es una cadena booleana (AND, OR, NOT, comillas y paréntesis) lista para pegar en LinkedIn, Google o un ATS.
Los search strings se generan a partir de texto libre, de un sitio web (website-scraper) o de un PDF subido (process-pdf).
Responde en español, de forma breve y concreta. Si la pregunta no tiene que ver con la plataforma, dilo.`

// AIUseCase orquesta las llamadas al LLM: ai-search y generación de search strings.
// Aplica un timeout en cada llamada para que las latencias externas no bloqueen
// los goroutines del servidor.
type AIUseCase struct {
	llm     ports.LLMService
	timeout time.Duration
}

// NewAIUseCase construye el caso de uso inyectando el puerto LLMService.
func NewAIUseCase(llm ports.LLMService, timeout time.Duration) *AIUseCase {
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	return &AIUseCase{llm: llm, timeout: timeout}
}

// Search responde una pregunta sobre la plataforma.
func (uc *AIUseCase) Search(ctx context.Context, req dto.AISearchRequest) (*dto.AISearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query es obligatorio", domain.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	answer, err := uc.llm.Complete(ctx, platformDocs, query)
	if err != nil {
		return nil, fmt.Errorf("%w: ai-search (%s): %w", domain.ErrUpstream, uc.llm.Name(), err)
	}
	return &dto.AISearchResponse{Answer: strings.TrimSpace(answer)}, nil
}

// GenerateSearchString pide al LLM una cadena booleana a partir del material de entrada.
func (uc *AIUseCase) GenerateSearchString(ctx context.Context, kind, material string) (string, error) {
	material = strings.TrimSpace(material)
	if material == "" {
		return "", fmt.Errorf("%w: no hay material para generar el search string", domain.ErrInvalidInput)
	}
	material = truncateRunes(material, maxMaterialChars)

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	out, err := uc.llm.Complete(ctx, searchStringPrompt(kind), material)
	if err != nil {
		return "", fmt.Errorf("%w: search string (%s): %w", domain.ErrUpstream, uc.llm.Name(), err)
	}
	out = strings.Trim(strings.TrimSpace(out), "`")
	if out == "" {
		return "", fmt.Errorf("%w: el modelo devolvió una respuesta vacía", domain.ErrUpstream)
	}
	return out, nil
}

func searchStringPrompt(kind string) string {
	target := "prospectos comerciales (empresas y decisores)"
	if kind == entity.SearchStringRecruiting {
		target = "candidatos para el puesto descrito"
	}
	return "Genera un único search string booleano para encontrar " + target +
		". Usa AND, OR, NOT, comillas y paréntesis. Devuelve solo la cadena, sin explicación."
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
