package ai

import (
	"context"

	"island-npc-engine/backend/pkg/logger"
	"island-npc-engine/backend/pkg/resilience"
)

// Guarded wraps an AI service with a circuit breaker so that a failing
// text service stops receiving traffic until it recovers.
type Guarded struct {
	text    TextGenerator
	image   ImageGenerator
	judge   RepetitionJudge
	breaker *resilience.CircuitBreaker
}

// NewGuarded wraps the given service. All three concerns share one breaker
// because they target the same upstream.
func NewGuarded(svc *Service, log *logger.Logger) *Guarded {
	if log == nil {
		log = logger.GetLogger()
	}
	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("ai-service"), log)
	return &Guarded{text: svc, image: svc, judge: svc, breaker: cb}
}

func (g *Guarded) GenerateText(ctx context.Context, prompt string, opts Options) (string, error) {
	var out string
	err := g.breaker.Execute(func() error {
		var err error
		out, err = g.text.GenerateText(ctx, prompt, opts)
		return err
	})
	return out, err
}

func (g *Guarded) GenerateImage(ctx context.Context, prompt string) (string, error) {
	var out string
	err := g.breaker.Execute(func() error {
		var err error
		out, err = g.image.GenerateImage(ctx, prompt)
		return err
	})
	return out, err
}

func (g *Guarded) TooSimilar(ctx context.Context, candidate string, recent []string) (bool, error) {
	var out bool
	err := g.breaker.Execute(func() error {
		var err error
		out, err = g.judge.TooSimilar(ctx, candidate, recent)
		return err
	})
	return out, err
}

// State exposes the breaker state for health reporting.
func (g *Guarded) State() resilience.CircuitBreakerState {
	return g.breaker.GetState()
}
