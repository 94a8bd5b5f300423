package textgen

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by completers that have no upstream credentials.
var ErrNotConfigured = errors.New("text generation is not configured")

// Completer produces a single chat completion for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}
