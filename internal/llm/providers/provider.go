// File path: internal/llm/providers/provider.go
package providers

import "context"

// Message is one chat turn sent to a text-generation provider.
type Message struct {
	Role    string
	Content string
}

// ChatRequest carries a generation request. ProtocolVersion is forwarded by
// providers whose wire contract requires a fixed version string; others
// ignore it.
type ChatRequest struct {
	Messages        []Message
	MaxTokens       int
	Temperature     float64
	ProtocolVersion string
}

// Provider is the port to the hosted text-generation capability. Chat returns
// the first generated text segment; an empty string with a nil error means the
// response carried no content.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	Name() string
}
