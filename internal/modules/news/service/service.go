package service

import (
	"context"
	"errors"
	"fmt"

	"nimbus-web/internal/upstream"
)

const DefaultCategory = "general"

type Outcome string

const (
	OutcomeMissingKey Outcome = "missing_key"
	OutcomeEmpty      Outcome = "empty"
	OutcomeItems      Outcome = "items"
	OutcomeFailed     Outcome = "failed"
)

type Result struct {
	Category string
	Outcome  Outcome
	// Items keep the order the API returned.
	Items []upstream.NewsItem
	// Message is set for OutcomeFailed.
	Message string
}

// Decoded reports whether the API answered with a usable payload, i.e. the
// outcome is anything but OutcomeFailed.
func (r Result) Decoded() bool {
	return r.Outcome != OutcomeFailed
}

type NewsClient interface {
	News(ctx context.Context, base, category string) (upstream.NewsResponse, error)
}

type Service struct {
	client NewsClient
}

func NewService(client NewsClient) *Service {
	return &Service{client: client}
}

// Load fetches one category. The credential sentinel wins over any item list.
func (s *Service) Load(ctx context.Context, base, category string) Result {
	if category == "" {
		category = DefaultCategory
	}
	resp, err := s.client.News(ctx, base, category)
	switch {
	case err != nil:
		return Result{Category: category, Outcome: OutcomeFailed, Message: failureMessage(err)}
	case resp.Error == upstream.APIKeyMissing:
		return Result{Category: category, Outcome: OutcomeMissingKey}
	case len(resp.Noticias) == 0:
		return Result{Category: category, Outcome: OutcomeEmpty}
	default:
		return Result{Category: category, Outcome: OutcomeItems, Items: resp.Noticias}
	}
}

func failureMessage(err error) string {
	if code, ok := upstream.StatusCode(err); ok {
		return fmt.Sprintf("Error API: %d", code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Tiempo de espera agotado"
	}
	return err.Error()
}
