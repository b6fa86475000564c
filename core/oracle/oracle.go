// Package oracle provides text-in/text-out adjudicators used for entity
// canonicalization and LLM based extraction.
package oracle

import "context"

// Options configures the decoding of one oracle call.
type Options struct {
	Model       string
	Temperature float64
}

// Oracle answers one prompt with one text completion.
type Oracle interface {
	Adjudicate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, prompt string, opts Options) (string, error)

// Adjudicate calls f.
func (f Func) Adjudicate(ctx context.Context, prompt string, opts Options) (string, error) {
	return f(ctx, prompt, opts)
}
