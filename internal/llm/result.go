package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Failure classifies why a generation call produced no usable value
type Failure int

const (
	FailureNone      Failure = iota // Call succeeded
	FailureTransport                // Service raised, timed out, or returned an error status
	FailureMalformed                // Service answered without the expected fields or markers
	FailureEmpty                    // Service answered with blank text
	FailureTaxonomy                 // Answer named a label outside the taxonomy
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport"
	case FailureMalformed:
		return "malformed"
	case FailureEmpty:
		return "empty"
	case FailureTaxonomy:
		return "taxonomy_mismatch"
	default:
		return fmt.Sprintf("failure(%d)", int(f))
	}
}

// MarshalText renders the failure by name in reports
func (f Failure) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Result is the outcome of one generation call: either Text, or a Failure with its cause.
// Tokens is what the service reported for the call, zero when it failed.
type Result struct {
	Text    string
	Tokens  int
	Failure Failure
	Err     error
}

// OK reports whether the call produced usable text
func (r Result) OK() bool {
	return r.Failure == FailureNone
}

// Call issues one request and folds every failure mode into a Result.
// A nil provider is treated as a transport failure. Panics inside the
// provider are not recovered here; the pipeline boundary handles those.
func Call(ctx context.Context, p Provider, req GenerateRequest) Result {
	if p == nil {
		return Result{Failure: FailureTransport, Err: errors.New("no provider configured")}
	}

	resp, err := p.Generate(ctx, req)
	if err != nil {
		return Result{Failure: classify(err), Err: err}
	}
	if resp == nil {
		return Result{Failure: FailureMalformed, Err: ErrMalformedResponse}
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return Result{Tokens: resp.TokensUsed, Failure: FailureEmpty, Err: ErrEmptyResponse}
	}

	return Result{Text: text, Tokens: resp.TokensUsed}
}

func classify(err error) Failure {
	switch {
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformed
	case errors.Is(err, ErrEmptyResponse):
		return FailureEmpty
	default:
		return FailureTransport
	}
}
