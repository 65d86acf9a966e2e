package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"siteE2E/internal/browser"
)

const (
	defaultRequestsPerMinute = 60
	defaultTokensPerHour     = 90000
	defaultMaxTokens         = 300
)

type Client struct {
	completer   Completer
	model       string
	maxTokens   int
	log         *zap.Logger
	rateLimiter *RateLimiter
}

type Option func(*Client)

func WithRateLimit(requestsPerMinute, tokensPerHour int) Option {
	return func(c *Client) {
		c.rateLimiter = NewRateLimiter(requestsPerMinute, tokensPerHour)
	}
}

func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

func NewClient(apiKey, model string, log *zap.Logger, opts ...Option) *Client {
	return NewWithCompleter(openai.NewClient(apiKey), model, log, opts...)
}

// NewWithCompleter собирает клиент поверх произвольного Completer.
func NewWithCompleter(completer Completer, model string, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		completer:   completer,
		model:       model,
		maxTokens:   defaultMaxTokens,
		log:         log.Named("llm"),
		rateLimiter: NewRateLimiter(defaultRequestsPerMinute, defaultTokensPerHour),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// complete выполняет запрос с учетом лимитов.
func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	// ~4 символа на токен плюс ответ
	estimated := req.MaxTokens
	for _, msg := range req.Messages {
		estimated += len(msg.Content) / 4
	}

	if err := c.rateLimiter.Wait(ctx, estimated); err != nil {
		return openai.ChatCompletionResponse{}, err
	}

	resp, err := c.completer.CreateChatCompletion(ctx, req)
	if err != nil {
		return resp, err
	}

	if resp.Usage.TotalTokens > estimated {
		c.rateLimiter.Consume(resp.Usage.TotalTokens - estimated)
	}
	return resp, nil
}

const overlayPrompt = `Analyze the page elements and determine if there is a popup, modal, cookie banner or overlay that blocks the page content.

Elements data (only fixed or high z-index elements):
%s

Determine:
1. Is there a blocking popup/modal/overlay present?
2. If yes, the CSS selector of the button that closes or accepts it. Use only selectors from the data.
3. The CSS selector of the overlay container, if known.

Respond in JSON format:
{
  "has_popup": true/false,
  "close_selector": "CSS selector",
  "popup_selector": "CSS selector or empty",
  "popup_description": "brief description",
  "reasoning": "your analysis"
}`

// AnalyzeOverlay спрашивает модель, какой из элементов закрывает оверлей.
func (c *Client) AnalyzeOverlay(ctx context.Context, elements []browser.Element) (*OverlayAnswer, error) {
	data, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("сериализация снапшота: %w", err)
	}

	resp, err := c.complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert at analyzing web page structure and identifying popups and their close buttons.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(overlayPrompt, data),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("анализ оверлея: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errEmptyAnswer
	}

	answer, err := parseAnswer(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	c.log.Debug("ответ модели об оверлее",
		zap.Bool("has_popup", answer.HasPopup),
		zap.String("close_selector", answer.CloseSelector),
		zap.String("reasoning", answer.Reasoning),
		zap.Int("tokens", resp.Usage.TotalTokens))
	return answer, nil
}
