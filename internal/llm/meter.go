package llm

import (
	"context"
	"sync/atomic"
)

// Usage totals the generation calls made through a Meter
type Usage struct {
	Calls  int `json:"calls"`
	Tokens int `json:"tokens"`
}

// Sub returns the usage accrued since prev
func (u Usage) Sub(prev Usage) Usage {
	return Usage{Calls: u.Calls - prev.Calls, Tokens: u.Tokens - prev.Tokens}
}

// Meter wraps a provider and tallies calls and reported tokens.
// Failed calls count as calls with zero tokens.
type Meter struct {
	Provider
	calls  atomic.Int64
	tokens atomic.Int64
}

// WithMeter wraps p in a Meter. A nil p yields nil so callers keep the
// "no provider" behavior.
func WithMeter(p Provider) *Meter {
	if p == nil {
		return nil
	}
	return &Meter{Provider: p}
}

// Generate delegates and records the response's token count
func (m *Meter) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	m.calls.Add(1)
	resp, err := m.Provider.Generate(ctx, req)
	if err == nil && resp != nil {
		m.tokens.Add(int64(resp.TokensUsed))
	}
	return resp, err
}

// Usage returns the running totals
func (m *Meter) Usage() Usage {
	if m == nil {
		return Usage{}
	}
	return Usage{Calls: int(m.calls.Load()), Tokens: int(m.tokens.Load())}
}
