package fakes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
)

// LLM fake de ports.LLMService: registra los prompts y responde con Reply o Err.
type LLM struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Delay   time.Duration // espera antes de responder; respeta la cancelación del contexto
	Systems []string
	Prompts []string
}

var _ ports.LLMService = (*LLM)(nil)

func (l *LLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Systems = append(l.Systems, system)
	l.Prompts = append(l.Prompts, prompt)
	delay := l.Delay
	l.mu.Unlock()
	if delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(delay):
		}
	}
	l.mu.Lock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.Err != nil {
		return "", l.Err
	}
	return l.Reply, nil
}

func (l *LLM) Name() string { return "fake" }

// Fetcher fake de ports.PageFetcher.
type Fetcher struct {
	Pages map[string]*ports.ScrapedPage
	Err   error
}

func (f Fetcher) Fetch(_ context.Context, rawURL string) (*ports.ScrapedPage, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if p, ok := f.Pages[rawURL]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("scraper: HTTP 404")
}

// Files fake de ports.FileStore.
type Files struct {
	mu    sync.Mutex
	Files map[string][]byte
}

func (f *Files) Save(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Files == nil {
		f.Files = map[string][]byte{}
	}
	f.Files[path] = data
	return nil
}

func (f *Files) Read(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Files[path]
	if !ok {
		return nil, fmt.Errorf("storage: %s no existe", path)
	}
	return data, nil
}

// PDF fake de ports.PDFTextExtractor: devuelve el contenido tal cual como texto.
type PDF struct{ Err error }

func (p PDF) ExtractText(_ context.Context, data []byte) (string, error) {
	if p.Err != nil {
		return "", p.Err
	}
	return strings.TrimSpace(string(data)), nil
}

// Metrics fake de ports.MetricsRecorder que cuenta eventos.
type Metrics struct {
	mu        sync.Mutex
	Redirects map[string]int
	Repairs   map[string]int
	Calls     map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{Redirects: map[string]int{}, Repairs: map[string]int{}, Calls: map[string]int{}}
}

func (m *Metrics) RedirectDecided(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Redirects[action]++
}

func (m *Metrics) AssociationRepaired(kind string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Repairs[kind] += n
}

func (m *Metrics) FunctionCalled(name, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name+":"+outcome]++
}
