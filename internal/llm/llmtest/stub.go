// Package llmtest provides scripted generation providers for tests.
package llmtest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ppiankov/paperdigest/internal/llm"
)

// ErrUnavailable is returned by Failing stubs
var ErrUnavailable = errors.New("generation service unavailable")

// Handler answers one prompt
type Handler func(prompt string) (string, error)

// Stub is a llm.Provider driven by a handler. It records every prompt.
type Stub struct {
	handler Handler
	tokens  int
	mu      sync.Mutex
	prompts []string
}

// New creates a stub that answers with handler
func New(handler Handler) *Stub {
	return &Stub{handler: handler}
}

// Fixed answers every prompt with text
func Fixed(text string) *Stub {
	return New(func(string) (string, error) { return text, nil })
}

// Failing raises on every call
func Failing() *Stub {
	return New(func(string) (string, error) { return "", ErrUnavailable })
}

// Rule maps a prompt substring to a reply
type Rule struct {
	Contains string
	Reply    string
}

// Rules answers with the first rule whose Contains appears in the prompt.
// Unmatched prompts get fallback.
func Rules(fallback string, rules ...Rule) *Stub {
	return New(func(prompt string) (string, error) {
		for _, r := range rules {
			if strings.Contains(prompt, r.Contains) {
				return r.Reply, nil
			}
		}
		return fallback, nil
	})
}

// WithTokens makes every successful call report n tokens used
func (s *Stub) WithTokens(n int) *Stub {
	s.tokens = n
	return s
}

// Name returns the provider name
func (s *Stub) Name() string { return "stub" }

// IsAvailable always reports true
func (s *Stub) IsAvailable(ctx context.Context) bool { return true }

// Generate answers the concatenated user prompt through the handler
func (s *Stub) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	var parts []string
	for _, m := range req.Messages {
		if m.Role == llm.RoleUser {
			parts = append(parts, m.Content)
		}
	}
	prompt := strings.Join(parts, "\n")

	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := s.handler(prompt)
	if err != nil {
		return nil, err
	}
	return &llm.GenerateResponse{Text: text, Model: "stub", TokensUsed: s.tokens}, nil
}

// Prompts returns the prompts seen so far, in call order
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.prompts))
	copy(out, s.prompts)
	return out
}

// Calls returns the number of Generate calls
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}
