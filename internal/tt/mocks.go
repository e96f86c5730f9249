// Package tt provides shared test doubles for the termagent test
// suites.
package tt

import (
	"context"

	"github.com/coryvant/termagent"
)

// ScriptedClient implements termagent.CompletionClient by replaying a
// queue of responses and errors. When the queue runs out, the last
// configured entry repeats, so "a client that never finishes" is just
// a script whose final entry is an action directive.
type ScriptedClient struct {
	responses []string
	errors    []error
	callCount int

	// CapturedPrompts stores the prompt passed to each Complete call.
	CapturedPrompts []string
}

// NewScriptedClient creates a client replaying the given responses.
func NewScriptedClient(responses ...string) *ScriptedClient {
	return &ScriptedClient{responses: responses}
}

// AddResponse queues a response.
func (c *ScriptedClient) AddResponse(text string) *ScriptedClient {
	c.responses = append(c.responses, text)
	return c
}

// AddError queues an error for the call at the current queue position.
func (c *ScriptedClient) AddError(err error) *ScriptedClient {
	for len(c.responses) <= len(c.errors) {
		c.responses = append(c.responses, "")
	}
	c.errors = append(c.errors, err)
	return c
}

// CallCount returns how many times Complete has been called.
func (c *ScriptedClient) CallCount() int {
	return c.callCount
}

// Complete implements termagent.CompletionClient.
func (c *ScriptedClient) Complete(_ context.Context, prompt string) (string, error) {
	idx := c.callCount
	c.callCount++
	c.CapturedPrompts = append(c.CapturedPrompts, prompt)

	if idx < len(c.errors) && c.errors[idx] != nil {
		return "", c.errors[idx]
	}
	if idx < len(c.responses) {
		return c.responses[idx], nil
	}
	if n := len(c.responses); n > 0 {
		return c.responses[n-1], nil
	}
	return "", nil
}

// Compile-time check.
var _ termagent.CompletionClient = (*ScriptedClient)(nil)
