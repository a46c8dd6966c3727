// File path: internal/storage/fs_test.go
package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	content := "agreement_id,status\nag-1,Generated\n"
	if err := store.Put(ctx, "output/populated_credit_agreements.csv", strings.NewReader(content), int64(len(content)), "text/csv"); err != nil {
		t.Fatalf("put: %v", err)
	}

	body, err := store.Get(ctx, "output/populated_credit_agreements.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != content {
		t.Fatalf("round trip mismatch: %q", raw)
	}
}

func TestFSStoreGetMissingKey(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Get(context.Background(), "CAMS/missing.csv"); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestNewFSStoreRequiresRoot(t *testing.T) {
	if _, err := NewFSStore("  "); err == nil {
		t.Fatalf("expected error for blank root")
	}
}
