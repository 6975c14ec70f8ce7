// Package scraper descarga páginas web y extrae su texto visible.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"syscall"
	"time"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/pkg/config"
)

var _ ports.PageFetcher = (*HTMLFetcher)(nil)

const userAgent = "Mozilla/5.0 (compatible; LeadPortalBot/1.0)"

// ErrBlockedAddress la URL resuelve a una dirección no pública (loopback, privada, link-local).
// Envuelve domain.ErrInvalidInput: es un error del llamador, no del sitio remoto.
var ErrBlockedAddress = fmt.Errorf("%w: la URL apunta a una dirección no permitida", domain.ErrInvalidInput)

// cgnat 100.64.0.0/10, compartido por operadores; netip no lo marca como privado.
var cgnat = netip.MustParsePrefix("100.64.0.0/10")

// HTMLFetcher implementa PageFetcher con net/http y el parser de x/net/html.
type HTMLFetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	maxChars int
}

// NewHTMLFetcher aplica los límites de ScraperConfig; los ceros toman 10 s, 2 MiB y 50 000 caracteres.
func NewHTMLFetcher(cfg config.ScraperConfig) *HTMLFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 2 << 20
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 50000
	}
	dialer := &net.Dialer{Timeout: cfg.Timeout}
	if !cfg.AllowPrivateNetworks {
		// se valida la IP ya resuelta, así un DNS que apunte a 127.0.0.1 tampoco pasa
		dialer.Control = guardAddress
	}
	transport := &http.Transport{
		Proxy:                 nil,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   cfg.Timeout,
		ResponseHeaderTimeout: cfg.Timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       30 * time.Second,
	}
	return &HTMLFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("demasiadas redirecciones")
				}
				if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
					return fmt.Errorf("redirección a esquema no permitido: %s", req.URL.Scheme)
				}
				return nil
			},
		},
		timeout:  cfg.Timeout,
		maxBytes: cfg.MaxBytes,
		maxChars: cfg.MaxChars,
	}
}

// Fetch descarga rawURL y devuelve el texto visible normalizado.
func (f *HTMLFetcher) Fetch(ctx context.Context, rawURL string) (*ports.ScrapedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper: request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scraper: %s respondió HTTP %d", rawURL, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, f.maxBytes)
	var text string
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("scraper: leer cuerpo: %w", err)
		}
		text = string(raw)
	} else {
		text, err = VisibleText(body)
		if err != nil {
			return nil, fmt.Errorf("scraper: parsear HTML: %w", err)
		}
	}

	final := resp.Request.URL
	return &ports.ScrapedPage{
		URL:    final.String(),
		Domain: final.Hostname(),
		Text:   truncateRunes(Normalize(text), f.maxChars),
	}, nil
}

// guardAddress rechaza conexiones a direcciones que no son unicast públicas.
func guardAddress(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	if !publicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, ap.Addr())
	}
	return nil
}

func publicAddr(a netip.Addr) bool {
	a = a.Unmap()
	return a.IsValid() && a.IsGlobalUnicast() && !a.IsPrivate() && !a.IsLoopback() &&
		!a.IsLinkLocalUnicast() && !cgnat.Contains(a)
}

// VisibleText construye el árbol con html.Parse, que cierra las etiquetas implícitas
// igual que un navegador, y junta el texto fuera de head, script, style y similares.
func VisibleText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if hidden(n.DataAtom) {
				return
			}
			if block(n.DataAtom) {
				b.WriteByte(' ')
				defer b.WriteByte(' ')
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String(), nil
}

func hidden(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head, atom.Svg, atom.Iframe:
		return true
	}
	return false
}

func block(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Br, atom.Li, atom.Tr, atom.Td, atom.Th, atom.H1, atom.H2, atom.H3,
		atom.H4, atom.H5, atom.H6, atom.Section, atom.Article, atom.Header, atom.Footer, atom.Nav:
		return true
	}
	return false
}

// Normalize colapsa espacios y normaliza a NFC.
func Normalize(s string) string {
	return norm.NFC.String(strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " "))
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
