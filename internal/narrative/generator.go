// File path: internal/narrative/generator.go

// Package narrative turns approval-memo text into a short generated
// "approval conditions" clause through the text-generation port.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/camline/agreementd/internal/common"
	"github.com/camline/agreementd/internal/llm"
)

// NoContent is returned when the provider response carries no usable text.
const NoContent = "N/A"

const (
	maxTokens          = 300
	temperature        = 0.5
	protocolVersion    = "bedrock-2023-05-31"
	instructionPattern = "Review the following CAM and generate approval conditions for a loan:\n\n%s\n\nApproval Conditions:"
)

// Generator builds the fixed-shape generation request and invokes the
// configured provider.
type Generator struct {
	provider llm.Provider
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate produces the approval-conditions narrative for the supplied source
// text: either raw memo text or serialized extracted fields. Service errors
// propagate for the caller to absorb at the row boundary; a response without
// content yields the NoContent sentinel.
func (g *Generator) Generate(ctx context.Context, sourceText string) (string, error) {
	if g == nil || g.provider == nil {
		return "", fmt.Errorf("narrative: no provider configured")
	}
	req := llm.ChatRequest{
		Messages: []llm.Message{
			{Role: "user", Content: fmt.Sprintf(instructionPattern, sourceText)},
		},
		MaxTokens:       maxTokens,
		Temperature:     temperature,
		ProtocolVersion: protocolVersion,
	}
	text, err := g.provider.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("narrative: generate conditions: %w", err)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		common.Logger().Warn("narrative: provider response had no content")
		return NoContent, nil
	}
	return trimmed, nil
}
