package ports

import "context"

// LLMService define el puerto de salida hacia el proveedor de chat-completion.
// Cualquier adaptador (OpenAI, Anthropic, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type LLMService interface {
	// Complete envía el prompt de sistema y el mensaje del usuario y devuelve el texto de la respuesta.
	Complete(ctx context.Context, system, prompt string) (string, error)
	// Name identifica al proveedor en logs y métricas.
	Name() string
}
