// Package models adapts langchaingo model clients to the completion
// interface the loop consumes, classifying provider errors into
// transient and fatal so the loop knows what to retry.
package models

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/coryvant/termagent"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GeminiOpenAIBaseURL is Google's OpenAI-compatible endpoint for the
// Gemini API. The langchaingo openai client works against any endpoint
// speaking that protocol, so one client covers Gemini, xAI, and OpenAI
// itself with different base URLs.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// DefaultModelName is the model used when none is configured.
const DefaultModelName = "gemini-2.0-flash"

// LCGClient wraps an llms.Model and implements
// [termagent.CompletionClient].
//
// Example usage:
//
//	llm, _ := openai.New(
//		openai.WithToken(apiKey),
//		openai.WithBaseURL(models.GeminiOpenAIBaseURL),
//		openai.WithModel(models.DefaultModelName),
//	)
//	client := models.NewLCGClient(llm)
type LCGClient struct {
	model       llms.Model
	callOptions []llms.CallOption
}

// NewLCGClient creates an LCGClient wrapping the given llms.Model.
// Panics if model is nil.
func NewLCGClient(model llms.Model) *LCGClient {
	if model == nil {
		panic("models: model cannot be nil")
	}
	return &LCGClient{model: model}
}

// NewGeminiClient builds an LCGClient for the Gemini OpenAI-compatible
// endpoint. Returns an error if the underlying client cannot be
// constructed.
func NewGeminiClient(apiKey, modelName string) (*LCGClient, error) {
	if modelName == "" {
		modelName = DefaultModelName
	}
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(GeminiOpenAIBaseURL),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewLCGClient(llm), nil
}

// NewOpenAICompatClient builds an LCGClient for any OpenAI-compatible
// endpoint, e.g. api.openai.com or api.x.ai.
func NewOpenAICompatClient(apiKey, baseURL, modelName string) (*LCGClient, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create client for %s: %w", baseURL, err)
	}
	return NewLCGClient(llm), nil
}

// WithCallOptions appends llms call options applied to every
// completion, e.g. llms.WithTemperature. Returns the client for
// chaining.
func (c *LCGClient) WithCallOptions(opts ...llms.CallOption) *LCGClient {
	c.callOptions = append(c.callOptions, opts...)
	return c
}

// Unwrap returns the underlying llms.Model.
func (c *LCGClient) Unwrap() llms.Model {
	return c.model
}

// Complete implements [termagent.CompletionClient]. Errors from the
// provider are wrapped in [termagent.ServiceError] with their
// transience classified, except context cancellation, which passes
// through untouched so the loop can distinguish a user interrupt from
// a provider failure.
func (c *LCGClient) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.callOptions...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", classify(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", termagent.NewTransientError(errors.New("model returned an empty completion"))
	}
	return text, nil
}

// transientMarkers are substrings of provider error messages that
// indicate a retry is worthwhile: rate limits, server-side failures,
// and overload signals.
var transientMarkers = []string{
	"429",
	"500",
	"502",
	"503",
	"504",
	"rate limit",
	"rate_limit",
	"overloaded",
	"too many requests",
	"timeout",
	"temporarily unavailable",
	"connection reset",
	"EOF",
}

// fatalMarkers are substrings that indicate retrying cannot help:
// authentication and request-shape problems.
var fatalMarkers = []string{
	"401",
	"403",
	"404",
	"invalid api key",
	"incorrect api key",
	"unauthorized",
	"permission",
	"model not found",
}

// classify wraps a provider error as transient or fatal. Network-level
// failures and deadline expiry are transient; unrecognized errors are
// fatal, because retrying an unknown failure burns the budget without
// a reason to expect a different outcome.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return termagent.NewTransientError(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return termagent.NewTransientError(err)
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range fatalMarkers {
		if strings.Contains(msg, strings.ToLower(marker)) {
			return termagent.NewServiceError(err)
		}
	}
	for _, marker := range transientMarkers {
		if strings.Contains(msg, strings.ToLower(marker)) {
			return termagent.NewTransientError(err)
		}
	}
	return termagent.NewServiceError(err)
}

// Compile-time check that LCGClient implements
// termagent.CompletionClient.
var _ termagent.CompletionClient = (*LCGClient)(nil)
