package usecase

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// MaxPDFBytes tamaño máximo de un PDF subido.
const MaxPDFBytes = 10 << 20

// SearchStringUseCase crea search strings desde texto, sitio web o PDF y los genera con IA.
type SearchStringUseCase struct {
	repo    repository.SearchStringRepository
	ai      *AIUseCase
	scraper *ScraperUseCase
	files   ports.FileStore
	pdf     ports.PDFTextExtractor
	log     *logger.Logger
}

// NewSearchStringUseCase construye el caso de uso.
func NewSearchStringUseCase(
	repo repository.SearchStringRepository,
	ai *AIUseCase,
	scraper *ScraperUseCase,
	files ports.FileStore,
	pdf ports.PDFTextExtractor,
	log *logger.Logger,
) *SearchStringUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchStringUseCase{repo: repo, ai: ai, scraper: scraper, files: files, pdf: pdf, log: log.Component("search_strings")}
}

// Create registra el search string. Texto y sitio web se generan en el acto; un PDF queda en
// estado new hasta que se llama a ProcessPDF. Un fallo de generación queda en status failed.
func (uc *SearchStringUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSearchStringRequest) (*dto.SearchStringResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	kind := in.Type
	if kind == "" {
		kind = entity.SearchStringLead
	}
	if kind != entity.SearchStringLead && kind != entity.SearchStringRecruiting {
		return nil, fmt.Errorf("%w: type %q", domain.ErrInvalidInput, in.Type)
	}

	now := time.Now()
	s := &entity.SearchString{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		UserID:      userID,
		Type:        kind,
		InputSource: in.InputSource,
		Status:      entity.SearchStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch in.InputSource {
	case entity.SearchSourceText:
		s.InputText = strings.TrimSpace(in.InputText)
		if s.InputText == "" {
			return nil, fmt.Errorf("%w: input_text es obligatorio", domain.ErrInvalidInput)
		}
	case entity.SearchSourceWebsite:
		u, err := ValidateScrapeURL(in.InputURL)
		if err != nil {
			return nil, err
		}
		s.InputURL = u
	case entity.SearchSourcePDF:
		if err := uc.checkPDFPath(companyID, in.PDFPath); err != nil {
			return nil, err
		}
		s.PDFPath = in.PDFPath
	default:
		return nil, fmt.Errorf("%w: input_source %q", domain.ErrInvalidInput, in.InputSource)
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	switch s.InputSource {
	case entity.SearchSourceText:
		uc.generate(ctx, s)
	case entity.SearchSourceWebsite:
		page, err := uc.scraper.Scrape(ctx, dto.ScrapeRequest{URL: s.InputURL})
		if err != nil {
			uc.fail(ctx, s, err)
		} else {
			s.InputText = page.Text
			uc.generate(ctx, s)
		}
	}
	return toSearchStringResponse(s), nil
}

// UploadPDF guarda el PDF en el bucket bajo la carpeta de la empresa y devuelve su ruta.
func (uc *SearchStringUseCase) UploadPDF(ctx context.Context, companyID string, data []byte) (string, error) {
	if companyID == "" {
		return "", domain.ErrNoCompany
	}
	if len(data) == 0 || len(data) > MaxPDFBytes {
		return "", fmt.Errorf("%w: el PDF debe tener entre 1 byte y %d MiB", domain.ErrInvalidInput, MaxPDFBytes>>20)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", fmt.Errorf("%w: el archivo no es un PDF", domain.ErrInvalidInput)
	}
	p := path.Join(companyID, uuid.New().String()+".pdf")
	if err := uc.files.Save(ctx, p, data); err != nil {
		return "", fmt.Errorf("guardar PDF: %w", err)
	}
	return p, nil
}

// ProcessPDF extrae el texto del PDF del bucket, lo guarda en el search string y lanza la generación.
func (uc *SearchStringUseCase) ProcessPDF(ctx context.Context, companyID string, in dto.ProcessPDFRequest) (*dto.ProcessPDFResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	if err := uc.checkPDFPath(companyID, in.PDFPath); err != nil {
		return nil, err
	}
	s, err := uc.repo.GetByID(ctx, in.SearchStringID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	s.PDFPath = in.PDFPath
	s.Status = entity.SearchStatusProcessing
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}

	resp := &dto.ProcessPDFResponse{SearchStringID: s.ID}
	data, err := uc.files.Read(ctx, in.PDFPath)
	if err != nil {
		uc.fail(ctx, s, err)
		resp.Status, resp.Error = s.Status, s.ErrorMessage
		return resp, nil
	}
	text, err := uc.pdf.ExtractText(ctx, data)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("el PDF no contiene texto extraíble")
	}
	if err != nil {
		uc.fail(ctx, s, err)
		resp.Status, resp.Error = s.Status, s.ErrorMessage
		return resp, nil
	}

	s.InputText = text
	uc.generate(ctx, s)
	resp.Success = s.Status == entity.SearchStatusCompleted
	resp.TextLength = len([]rune(text))
	resp.Status = s.Status
	resp.Error = s.ErrorMessage
	return resp, nil
}

// List search strings de la empresa.
func (uc *SearchStringUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) ([]dto.SearchStringResponse, error) {
	if companyID == "" {
		return nil, domain.ErrNoCompany
	}
	page.Normalize()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SearchStringResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSearchStringResponse(s))
	}
	return out, nil
}

// checkPDFPath la ruta debe estar dentro de la carpeta de la empresa.
func (uc *SearchStringUseCase) checkPDFPath(companyID, p string) error {
	clean := path.Clean(strings.TrimSpace(p))
	if p == "" || clean != p || !strings.HasPrefix(clean, companyID+"/") || !strings.HasSuffix(strings.ToLower(clean), ".pdf") {
		return fmt.Errorf("%w: pdf_path inválido", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *SearchStringUseCase) generate(ctx context.Context, s *entity.SearchString) {
	out, err := uc.ai.GenerateSearchString(ctx, s.Type, s.InputText)
	if err != nil {
		uc.fail(ctx, s, err)
		return
	}
	s.GeneratedString = out
	s.Status = entity.SearchStatusCompleted
	s.ErrorMessage = ""
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		uc.log.Error().Err(err).Str("search_string_id", s.ID).Msg("no se pudo guardar el search string generado")
	}
}

func (uc *SearchStringUseCase) fail(ctx context.Context, s *entity.SearchString, cause error) {
	s.Status = entity.SearchStatusFailed
	s.ErrorMessage = cause.Error()
	s.UpdatedAt = time.Now()
	uc.log.Warn().Err(cause).Str("search_string_id", s.ID).Str("source", s.InputSource).Msg("generación de search string fallida")
	if err := uc.repo.Update(ctx, s); err != nil {
		uc.log.Error().Err(err).Str("search_string_id", s.ID).Msg("no se pudo marcar el search string como fallido")
	}
}

func toSearchStringResponse(s *entity.SearchString) *dto.SearchStringResponse {
	return &dto.SearchStringResponse{
		ID:              s.ID,
		CompanyID:       s.CompanyID,
		Type:            s.Type,
		InputSource:     s.InputSource,
		InputURL:        s.InputURL,
		PDFPath:         s.PDFPath,
		GeneratedString: s.GeneratedString,
		Status:          s.Status,
		ErrorMessage:    s.ErrorMessage,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
