package suggestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/hireflow/internal/llm"
	"github.com/jonathan/hireflow/internal/logger"
	"github.com/jonathan/hireflow/internal/metrics"
	"github.com/jonathan/hireflow/internal/prompts"
	"github.com/jonathan/hireflow/internal/types"
)

// State is a step of a single suggestion request.
type State string

// Suggestion request states, in order.
const (
	StateBuildingPrompt     State = "building_prompt"
	StateAwaitingCompletion State = "awaiting_completion"
	StateExtracting         State = "extracting"
	StateDone               State = "done"
)

// FallbackReason explains why a pool entry was served instead of a live suggestion.
type FallbackReason string

// Fallback reasons. ReasonNone marks a live result.
const (
	ReasonNone                 FallbackReason = ""
	ReasonNoCredential         FallbackReason = "no_credential"
	ReasonProviderError        FallbackReason = "provider_error"
	ReasonExtractionIncomplete FallbackReason = "extraction_incomplete"
)

// Result is the outcome of Suggest. Suggestion is always complete.
type Result struct {
	Suggestion types.CompanySuggestion
	Fallback   bool
	Reason     FallbackReason
	State      State
}

// Service produces one company suggestion per call.
type Service struct {
	client llm.Client
	pool   *Pool
	log    logger.Logger
}

// NewService creates a Service. A nil client disables the live path and every
// call is answered from pool without touching the network.
func NewService(client llm.Client, pool *Pool, log logger.Logger) *Service {
	if pool == nil {
		pool = DefaultPool()
	}
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Service{client: client, pool: pool, log: log}
}

// Live reports whether suggestions are requested from an inference provider.
func (s *Service) Live() bool {
	return s.client != nil
}

// Pool returns the fallback pool.
func (s *Service) Pool() *Pool {
	return s.pool
}

// Suggest builds the prompt for variant, asks the model for a completion and
// extracts a suggestion from it. Provider failures and incomplete completions
// are absorbed by the fallback pool; the only error is a prompt that cannot be
// built, which happens for an unknown variant.
func (s *Service) Suggest(ctx context.Context, in prompts.SuggestionInput, variant types.Variant) (Result, error) {
	log := s.log.With(map[string]interface{}{"variant": string(variant)})

	s.enter(log, StateBuildingPrompt)
	prompt, err := prompts.BuildSuggestionPrompt(in, variant)
	if err != nil {
		return Result{}, fmt.Errorf("build suggestion prompt: %w", err)
	}

	if s.client == nil {
		return s.fallback(log, ReasonNoCredential, nil), nil
	}

	s.enter(log, StateAwaitingCompletion)
	start := time.Now()
	raw, err := s.client.Complete(ctx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.InferenceDuration.WithLabelValues(s.client.Model(), status).Observe(time.Since(start).Seconds())
	if err != nil {
		return s.fallback(log, ReasonProviderError, err), nil
	}

	s.enter(log, StateExtracting)
	extracted, err := Extract(raw)
	if err != nil {
		return s.fallback(log.With(map[string]interface{}{"completion": raw}), ReasonExtractionIncomplete, err), nil
	}

	s.enter(log, StateDone)
	metrics.SuggestionsTotal.WithLabelValues(metrics.OutcomeLive, string(ReasonNone)).Inc()
	log.Info("live suggestion served", map[string]interface{}{
		"company": extracted.CompanyName,
	})
	return Result{Suggestion: extracted, State: StateDone}, nil
}

func (s *Service) fallback(log logger.Logger, reason FallbackReason, cause error) Result {
	s.enter(log, StateDone)
	metrics.SuggestionsTotal.WithLabelValues(metrics.OutcomeFallback, string(reason)).Inc()

	fields := map[string]interface{}{"reason": string(reason)}
	switch {
	case cause == nil:
		log.Info("serving fallback suggestion", fields)
	case errors.Is(cause, ErrIncompleteExtraction):
		log.WithError(cause).Warn("completion could not be parsed, serving fallback suggestion", fields)
	default:
		log.WithError(cause).Error("inference failed, serving fallback suggestion", fields)
	}

	return Result{
		Suggestion: s.pool.Pick(),
		Fallback:   true,
		Reason:     reason,
		State:      StateDone,
	}
}

func (s *Service) enter(log logger.Logger, state State) {
	log.Debug("suggestion state", map[string]interface{}{"state": string(state)})
}
