package main

import (
	"context"
	"fmt"

	"github.com/jonathan/hireflow/internal/config"
	"github.com/jonathan/hireflow/internal/llm"
	"github.com/jonathan/hireflow/internal/logger"
	"github.com/jonathan/hireflow/internal/suggestion"
)

// newSuggestionService builds the suggestion service. Without an inference
// token no client is created and every suggestion comes from the pool.
// A non-empty model overrides the configured one. The returned cleanup
// releases the inference client.
func newSuggestionService(ctx context.Context, cfg *config.Config, model string, log logger.Logger) (*suggestion.Service, func(), error) {
	pool, err := suggestion.LoadPool(cfg.Suggestion.PoolFile)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.InferenceEnabled() {
		log.Warn("no inference token configured, suggestions will come from the fallback pool", nil)
		return suggestion.NewService(nil, pool, log), func() {}, nil
	}

	llmCfg := llm.FromInference(cfg.Inference)
	if model != "" {
		llmCfg = llmCfg.WithModel(model)
	}
	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create inference client: %w", err)
	}
	log.Info("inference client ready", map[string]interface{}{
		"provider": cfg.Inference.Provider,
		"model":    client.Model(),
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("closing inference client", nil)
		}
	}
	return suggestion.NewService(client, pool, log), cleanup, nil
}
