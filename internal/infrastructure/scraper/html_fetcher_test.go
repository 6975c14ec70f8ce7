package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/pkg/config"
)

const page = `<!doctype html>
<html><head><title>Acme</title><style>body{color:red}</style></head>
<body>
  <script>var x = "oculto";</script>
  <h1>Acme   Corp</h1><p>Buscamos <b>ingenieros</b>
  de datos.</p>
  <noscript>activa javascript</noscript>
  <div>Cafe&#769; en Bogotá</div>
</body></html>`

func TestVisibleText_DescartaScriptsYColapsaEspacios(t *testing.T) {
	text, err := VisibleText(strings.NewReader(page))
	require.NoError(t, err)

	got := Normalize(text)
	assert.Equal(t, "Acme Corp Buscamos ingenieros de datos. Café en Bogotá", got)
	assert.NotContains(t, got, "oculto")
	assert.NotContains(t, got, "javascript")
	assert.NotContains(t, got, "color:red")
}

func TestVisibleText_EtiquetasImplicitas(t *testing.T) {
	cases := map[string]string{
		"<html><head><title>T</title><body><p>Hola mundo</p>":                   "Hola mundo",
		"<title>T</title><p>Uno<p>Dos":                                          "Uno Dos",
		"<body><iframe src=x></iframe><p>Visible</p><svg><text>no</text></svg>": "Visible",
		"<body><!-- comentario --><ul><li>a<li>b</ul>":                          "a b",
	}
	for in, want := range cases {
		text, err := VisibleText(strings.NewReader(in))
		require.NoError(t, err)
		assert.Equal(t, want, Normalize(text), in)
	}
}

func TestNormalize_NFC(t *testing.T) {
	assert.Equal(t, "Caf\u00e9 x", Normalize("Cafe\u0301 \n\t x"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "añ", truncateRunes("año", 2))
	assert.Equal(t, "año", truncateRunes("año", 10))
}

func TestFetch_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	f := NewHTMLFetcher(config.ScraperConfig{MaxChars: 9, AllowPrivateNetworks: true})
	got, err := f.Fetch(context.Background(), srv.URL+"/about")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Text)
	assert.Equal(t, "127.0.0.1", got.Domain)
	assert.Equal(t, srv.URL+"/about", got.URL)
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewHTMLFetcher(config.ScraperConfig{AllowPrivateNetworks: true}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := NewHTMLFetcher(config.ScraperConfig{Timeout: 50 * time.Millisecond, AllowPrivateNetworks: true}).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestFetch_LimitaBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer srv.Close()

	got, err := NewHTMLFetcher(config.ScraperConfig{MaxBytes: 100, AllowPrivateNetworks: true}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, got.Text, 100)
}

func TestFetch_RechazaDireccionesInternas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no debe llegar ninguna petición")
	}))
	defer srv.Close()

	f := NewHTMLFetcher(config.ScraperConfig{Timeout: time.Second})
	for _, u := range []string{srv.URL, strings.Replace(srv.URL, "127.0.0.1", "localhost", 1)} {
		_, err := f.Fetch(context.Background(), u+"/metrics")
		require.Error(t, err, u)
		assert.ErrorIs(t, err, ErrBlockedAddress, u)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, u)
	}
}

func TestPublicAddr(t *testing.T) {
	for addr, want := range map[string]bool{
		"8.8.8.8":          true,
		"2001:4860::8888":  true,
		"127.0.0.1":        false,
		"10.1.2.3":         false,
		"172.16.0.9":       false,
		"192.168.1.1":      false,
		"169.254.169.254":  false,
		"100.64.0.1":       false,
		"0.0.0.0":          false,
		"::1":              false,
		"fe80::1":          false,
		"fd00::1":          false,
		"::ffff:127.0.0.1": false,
		"224.0.0.1":        false,
	} {
		assert.Equal(t, want, publicAddr(netip.MustParseAddr(addr)), addr)
	}
}
