// Package llm подключает OpenAI к поиску незнакомых оверлеев: модель
// получает снапшот перекрывающих элементов и называет кнопку закрытия.
package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// Completer - часть openai.Client, которая нужна детектору.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OverlayAnswer - ответ модели о блокирующем оверлее.
type OverlayAnswer struct {
	HasPopup      bool   `json:"has_popup"`
	CloseSelector string `json:"close_selector"`
	PopupSelector string `json:"popup_selector"`
	Description   string `json:"popup_description"`
	Reasoning     string `json:"reasoning"`
}
