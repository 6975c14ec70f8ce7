package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/leadportal-api/internal/application/ports"
)

var _ ports.LLMService = (*OpenAIService)(nil)

const openAIBaseURL = "https://api.openai.com/v1"

// OpenAIService adaptador de chat completions de OpenAI. Proveedor por defecto.
type OpenAIService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIService model suele ser "gpt-4o-mini".
func NewOpenAIService(apiKey, model string) *OpenAIService {
	return &OpenAIService{apiKey: apiKey, model: model, baseURL: openAIBaseURL, httpClient: newHTTPClient()}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *OpenAIService) Name() string { return "openai" }

// Complete envía system + prompt y devuelve el contenido de la primera opción.
func (s *OpenAIService) Complete(ctx context.Context, system, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("%w: OPENAI_API_KEY", ErrNoAPIKey)
	}
	payload := chatCompletionsRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens: defaultMaxTokens,
	}
	raw, status, err := postJSON(ctx, s.httpClient, s.baseURL+"/chat/completions",
		map[string]string{"Authorization": "Bearer " + s.apiKey}, payload)
	if err != nil {
		return "", err
	}

	var resp chatCompletionsResponse
	jsonErr := json.Unmarshal(raw, &resp)
	if status != http.StatusOK {
		if jsonErr == nil && resp.Error != nil {
			return "", fmt.Errorf("AI: OpenAI error (%s): %s", resp.Error.Type, resp.Error.Message)
		}
		return "", fmt.Errorf("AI: OpenAI HTTP %d", status)
	}
	if jsonErr != nil {
		return "", fmt.Errorf("AI: deserializar respuesta OpenAI: %w", jsonErr)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
