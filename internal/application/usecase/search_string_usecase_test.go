package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/application/usecase"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/testutil/fakes"
)

type searchEnv struct {
	db    *fakes.DB
	llm   *fakes.LLM
	files *fakes.Files
	uc    *usecase.SearchStringUseCase
}

func newSearchEnv(pdfErr error) *searchEnv {
	db := fakes.NewDB()
	llm := &fakes.LLM{Reply: `"ventas" AND "saas"`}
	files := &fakes.Files{}
	fetcher := fakes.Fetcher{Pages: map[string]*ports.ScrapedPage{
		"https://acme.test": {URL: "https://acme.test", Domain: "acme.test", Text: "Software de ventas"},
	}}
	uc := usecase.NewSearchStringUseCase(
		fakes.SearchStringRepo{DB: db},
		usecase.NewAIUseCase(llm, time.Second),
		usecase.NewScraperUseCase(fetcher),
		files,
		fakes.PDF{Err: pdfErr},
		nil,
	)
	return &searchEnv{db: db, llm: llm, files: files, uc: uc}
}

func TestSearchString_DesdeTexto(t *testing.T) {
	env := newSearchEnv(nil)

	out, err := env.uc.Create(context.Background(), "c1", "u1", dto.CreateSearchStringRequest{InputSource: "text", InputText: "Vendemos CRM"})
	require.NoError(t, err)
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, `"ventas" AND "saas"`, out.GeneratedString)
	assert.Equal(t, "lead", out.Type)
	assert.Equal(t, "completed", env.db.Searches[out.ID].Status)
}

func TestSearchString_DesdeWeb(t *testing.T) {
	env := newSearchEnv(nil)

	out, err := env.uc.Create(context.Background(), "c1", "u1", dto.CreateSearchStringRequest{InputSource: "website", InputURL: "acme.test"})
	require.NoError(t, err)
	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, "Software de ventas", env.llm.Prompts[0])

	out, err = env.uc.Create(context.Background(), "c1", "u1", dto.CreateSearchStringRequest{InputSource: "website", InputURL: "https://caida.test"})
	require.NoError(t, err)
	assert.Equal(t, "failed", out.Status)
	assert.NotEmpty(t, out.ErrorMessage)
}

func TestSearchString_FalloDelLLM_QuedaFailed(t *testing.T) {
	env := newSearchEnv(nil)
	env.llm.Err = fakes.ErrBoom

	out, err := env.uc.Create(context.Background(), "c1", "u1", dto.CreateSearchStringRequest{InputSource: "text", InputText: "x"})
	require.NoError(t, err)
	assert.Equal(t, "failed", out.Status)
	assert.Equal(t, "failed", env.db.Searches[out.ID].Status)
}

func TestSearchString_FlujoPDF(t *testing.T) {
	env := newSearchEnv(nil)
	ctx := context.Background()

	p, err := env.uc.UploadPDF(ctx, "c1", []byte("%PDF-1.7 Gerente comercial con experiencia"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "c1/"))

	s, err := env.uc.Create(ctx, "c1", "u1", dto.CreateSearchStringRequest{Type: "recruiting", InputSource: "pdf", PDFPath: p})
	require.NoError(t, err)
	assert.Equal(t, "new", s.Status)

	out, err := env.uc.ProcessPDF(ctx, "c1", dto.ProcessPDFRequest{PDFPath: p, SearchStringID: s.ID})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "completed", out.Status)
	assert.Greater(t, out.TextLength, 0)

	_, err = env.uc.ProcessPDF(ctx, "c2", dto.ProcessPDFRequest{PDFPath: "c2/x.pdf", SearchStringID: s.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound, "otra empresa no ve el search string")
}

func TestSearchString_PDFSinTexto(t *testing.T) {
	env := newSearchEnv(fakes.ErrBoom)
	ctx := context.Background()
	p, err := env.uc.UploadPDF(ctx, "c1", []byte("%PDF-1.4"))
	require.NoError(t, err)
	s, err := env.uc.Create(ctx, "c1", "u1", dto.CreateSearchStringRequest{InputSource: "pdf", PDFPath: p})
	require.NoError(t, err)

	out, err := env.uc.ProcessPDF(ctx, "c1", dto.ProcessPDFRequest{PDFPath: p, SearchStringID: s.ID})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "failed", out.Status)
	assert.Empty(t, env.llm.Prompts)
}

func TestSearchString_Validaciones(t *testing.T) {
	env := newSearchEnv(nil)
	ctx := context.Background()

	_, err := env.uc.UploadPDF(ctx, "c1", []byte("no soy pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	for _, p := range []string{"c2/x.pdf", "c1/../c2/x.pdf", "c1/x.txt", ""} {
		_, err = env.uc.Create(ctx, "c1", "u1", dto.CreateSearchStringRequest{InputSource: "pdf", PDFPath: p})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, p)
	}

	_, err = env.uc.Create(ctx, "c1", "u1", dto.CreateSearchStringRequest{InputSource: "fax"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.uc.Create(ctx, "c1", "u1", dto.CreateSearchStringRequest{Type: "otro", InputSource: "text", InputText: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.uc.Create(ctx, "", "u1", dto.CreateSearchStringRequest{InputSource: "text", InputText: "x"})
	assert.ErrorIs(t, err, domain.ErrNoCompany)

	list, err := env.uc.List(ctx, "c1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
