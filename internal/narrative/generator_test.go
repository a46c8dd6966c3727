// File path: internal/narrative/generator_test.go
package narrative

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/camline/agreementd/internal/llm"
)

type fakeProvider struct {
	reply   string
	err     error
	lastReq llm.ChatRequest
	calls   int
}

func (f *fakeProvider) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.calls++
	f.lastReq = req
	return f.reply, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestGenerate(t *testing.T) {
	provider := &fakeProvider{reply: "  1. Verify income documents.\n2. Confirm appraisal.  "}
	gen := NewGenerator(provider)

	got, err := gen.Generate(context.Background(), "CAM-1: strong income, DTI 32%")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "1. Verify income documents.\n2. Confirm appraisal." {
		t.Fatalf("response should be trimmed, got %q", got)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}
	if provider.lastReq.MaxTokens != 300 || provider.lastReq.Temperature != 0.5 {
		t.Fatalf("unexpected request shape: %+v", provider.lastReq)
	}
	if len(provider.lastReq.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(provider.lastReq.Messages))
	}
	content := provider.lastReq.Messages[0].Content
	if !strings.Contains(content, "CAM-1: strong income, DTI 32%") || !strings.Contains(content, "Approval Conditions:") {
		t.Fatalf("prompt missing source text or instruction: %q", content)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	gen := NewGenerator(&fakeProvider{reply: "   "})
	got, err := gen.Generate(context.Background(), "memo text")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != NoContent {
		t.Fatalf("blank response should yield %q, got %q", NoContent, got)
	}
}

func TestGenerateProviderError(t *testing.T) {
	gen := NewGenerator(&fakeProvider{err: fmt.Errorf("rate limited")})
	if _, err := gen.Generate(context.Background(), "memo text"); err == nil {
		t.Fatalf("expected provider error to propagate")
	}
}

func TestGenerateNoProvider(t *testing.T) {
	gen := NewGenerator(nil)
	if _, err := gen.Generate(context.Background(), "memo text"); err == nil {
		t.Fatalf("expected error without a provider")
	}
}
