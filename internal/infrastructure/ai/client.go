// Package ai adaptadores del puerto LLMService sobre las APIs REST de OpenAI, Anthropic y Gemini.
// Solo usan net/http; el use case impone el timeout de cada llamada con el contexto.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
	"github.com/jhoicas/leadportal-api/pkg/config"
)

const (
	defaultMaxTokens = 1024
	maxResponseBytes = 256 * 1024
)

// ErrNoAPIKey el proveedor elegido no tiene clave configurada.
var ErrNoAPIKey = fmt.Errorf("AI: API key no configurada")

func newHTTPClient() *http.Client {
	// Timeout de red algo mayor que el del use case, que es el que manda.
	return &http.Client{Timeout: 45 * time.Second}
}

// NewFromConfig elige el adaptador según AI_PROVIDER.
func NewFromConfig(cfg config.AIConfig) (ports.LLMService, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	case "anthropic":
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	case "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("AI: proveedor desconocido %q", cfg.Provider)
	}
}

// postJSON envía payload y devuelve el cuerpo crudo junto al status.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("AI: leer respuesta: %w", err)
	}
	return raw, resp.StatusCode, nil
}
