// cmd/fx/planner_fx/module.go
package planner_fx

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"

	"tripcraft/internal/services"
	mem "tripcraft/pkg/memcache"
	"tripcraft/pkg/utils"
)

var Module = fx.Provide(
	services.NewPromptService,
	ProvideCompletionClientFactory,
	ProvidePlannerConfig,
	ProvidePlannerService)

// CompletionConfig holds configuration for completion clients
type CompletionConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideCompletionClientFactory builds completion clients on demand. A
// per-session key from the request overrides the configured one; with
// neither present the generation is rejected before any remote call.
func ProvideCompletionClientFactory() services.CompletionClientFactory {
	config := getCompletionConfig()

	log.Printf("Using %s completion provider with model: %s", config.Provider, config.Model)

	return func(apiKeyOverride string) (utils.CompletionClientInterface, error) {
		apiKey := config.APIKey
		if apiKeyOverride != "" {
			apiKey = apiKeyOverride
		}
		if apiKey == "" {
			return nil, fmt.Errorf("missing %s API key", config.Provider)
		}
		return utils.NewCompletionClient(config.Provider, apiKey, config.Model)
	}
}

func ProvidePlannerConfig() services.PlannerConfig {
	cfg := services.DefaultPlannerConfig()

	if v, err := strconv.Atoi(getEnvWithDefault("CHUNK_SIZE", "3")); err == nil && v > 0 {
		cfg.ChunkSize = v
	}
	if v, err := strconv.Atoi(getEnvWithDefault("COMPLETION_ATTEMPTS", "2")); err == nil && v > 0 {
		cfg.Attempts = v
	}
	if v, err := time.ParseDuration(getEnvWithDefault("COMPLETION_TIMEOUT", "90s")); err == nil {
		cfg.CallTimeout = v
	}
	if v, err := time.ParseDuration(getEnvWithDefault("PLAN_TTL", "1h")); err == nil {
		cfg.PlanTTL = v
	}

	return cfg
}

// ProvidePlannerService creates the planner service with all dependencies
func ProvidePlannerService(
	search services.SearchServiceInterface,
	prompts services.PromptServiceInterface,
	clientFor services.CompletionClientFactory,
	store mem.PlanStore,
	cfg services.PlannerConfig,
) services.PlannerServiceInterface {
	return services.NewPlannerService(search, prompts, clientFor, store, cfg)
}

// getCompletionConfig reads configuration from environment variables
func getCompletionConfig() CompletionConfig {
	provider := getEnvWithDefault("PLANNER_PROVIDER", "openrouter")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openrouter":
		apiKey = os.Getenv("OPENROUTER_API_KEY")
		model = getEnvWithDefault("OPENROUTER_MODEL", "google/gemini-2.0-flash-001")
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
	}

	return CompletionConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
