// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// LocalProvider is a deterministic stand-in used when no hosted provider is
// configured. It lets local pipeline runs complete without network access.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, req ChatRequest) (string, error) {
	if len(req.Messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := strings.TrimSpace(req.Messages[len(req.Messages)-1].Content)
	if last == "" {
		return "", nil
	}
	return "[local-stub] " + last, nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
