package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errEmptyAnswer = errors.New("пустой ответ модели")

// parseAnswer разбирает JSON-ответ. Модели иногда оборачивают его в
// markdown-блок, он снимается.
func parseAnswer(content string) (*OverlayAnswer, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}
	if content == "" {
		return nil, errEmptyAnswer
	}

	var answer OverlayAnswer
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return nil, fmt.Errorf("разбор ответа модели: %w", err)
	}
	answer.CloseSelector = strings.TrimSpace(answer.CloseSelector)
	answer.PopupSelector = strings.TrimSpace(answer.PopupSelector)
	return &answer, nil
}
