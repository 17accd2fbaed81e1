package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Environment variables read by NewClientFromEnv.
const (
	EnvProvider = "STATELINE_LLM_PROVIDER" // openai | anthropic | azure | off
	EnvModel    = "STATELINE_LLM_MODEL"
	EnvRPS      = "STATELINE_LLM_RPS"
	EnvBurst    = "STATELINE_LLM_BURST"
	EnvTimeout  = "STATELINE_LLM_TIMEOUT" // Go duration, e.g. "90s"
)

// defaultCallTimeout bounds one batched completion call. A timed-out
// jurisdiction falls back to rule evaluation instead of stalling the run.
const defaultCallTimeout = 120 * time.Second

// NewClientFromEnv constructs a completion client from environment variables.
// It returns (nil, nil) when no provider is configured ("off" or unset); the
// engine treats a nil client as rule-based-only mode.
func NewClientFromEnv() (Client, error) {
	provider := os.Getenv(EnvProvider)

	var client Client
	switch provider {
	case "", "off":
		return nil, nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		model := os.Getenv(EnvModel)
		if model == "" {
			model = "gpt-4o"
		}
		client = NewOpenAI(apiKey, model)

	case "anthropic":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		model := os.Getenv(EnvModel)
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		client = NewAnthropic(apiKey, model)

	case "azure":
		endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
		if endpoint == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_ENDPOINT environment variable not set")
		}
		apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("AZURE_OPENAI_API_KEY environment variable not set")
		}
		deployment := os.Getenv(EnvModel)
		if deployment == "" {
			return nil, fmt.Errorf("%s must name the Azure deployment", EnvModel)
		}
		var err error
		client, err = NewAzure(endpoint, apiKey, deployment)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown LLM provider %q: supported providers are openai, anthropic, azure, off", provider)
	}

	if rps := os.Getenv(EnvRPS); rps != "" {
		r, err := strconv.ParseFloat(rps, 64)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("invalid %s %q", EnvRPS, rps)
		}
		burst := 1
		if b := os.Getenv(EnvBurst); b != "" {
			burst, err = strconv.Atoi(b)
			if err != nil || burst < 1 {
				return nil, fmt.Errorf("invalid %s %q", EnvBurst, b)
			}
		}
		client = NewRateLimited(client, rate.Limit(r), burst)
	}

	timeout := defaultCallTimeout
	if raw := os.Getenv(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s %q", EnvTimeout, raw)
		}
		timeout = d
	}
	return NewWithTimeout(client, timeout), nil
}
