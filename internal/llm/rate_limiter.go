package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter ограничивает запросы в минуту и токены в час.
type RateLimiter struct {
	requests *rate.Limiter
	tokens   *rate.Limiter
}

func NewRateLimiter(requestsPerMinute, tokensPerHour int) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if tokensPerHour <= 0 {
		tokensPerHour = 90000
	}
	return &RateLimiter{
		requests: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
		tokens:   rate.NewLimiter(rate.Every(time.Hour/time.Duration(tokensPerHour)), tokensPerHour),
	}
}

// Wait ждет слот на запрос с оценкой tokens токенов. Оценка больше
// часового бюджета урезается до него.
func (rl *RateLimiter) Wait(ctx context.Context, tokens int) error {
	if err := rl.requests.Wait(ctx); err != nil {
		return fmt.Errorf("лимит запросов (%v/мин): %w", rl.requests.Burst(), err)
	}
	tokens = min(max(tokens, 1), rl.tokens.Burst())
	if err := rl.tokens.WaitN(ctx, tokens); err != nil {
		return fmt.Errorf("лимит токенов (%d в час): %w", rl.tokens.Burst(), err)
	}
	return nil
}

// Consume списывает токены сверх оценки, когда известен фактический расход.
func (rl *RateLimiter) Consume(tokens int) {
	if tokens <= 0 {
		return
	}
	rl.tokens.ReserveN(time.Now(), min(tokens, rl.tokens.Burst()))
}

// Available возвращает текущий запас запросов и токенов.
func (rl *RateLimiter) Available() (requests, tokens int) {
	now := time.Now()
	return int(rl.requests.TokensAt(now)), int(rl.tokens.TokensAt(now))
}
