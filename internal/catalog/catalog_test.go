// File path: internal/catalog/catalog_test.go
package catalog

import (
	"strings"
	"testing"
)

const templatesJSON = `[
  {
    "template_id": "TEMPLATE-001",
    "template_name": "Residential Mortgage Agreement",
    "template_content": "CREDIT AGREEMENT\n\nBorrower: {{borrower_name}}\nAmount: {{loan_amount}}\nRate: {{ interest_rate }}\n"
  },
  {
    "template_id": "TEMPLATE-002",
    "template_name": "Personal Loan Agreement",
    "template_content": "Borrower: {{borrower_name}}\nPurpose: {{loan_purpose}}"
  }
]`

func TestLoad(t *testing.T) {
	cat, err := Load(strings.NewReader(templatesJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("expected 2 definitions, got %d", cat.Len())
	}
	def, ok := cat.Lookup("TEMPLATE-001")
	if !ok {
		t.Fatalf("expected TEMPLATE-001 in catalog")
	}
	if def.Name != "Residential Mortgage Agreement" {
		t.Fatalf("unexpected name: %q", def.Name)
	}
	ids := cat.IDs()
	if len(ids) != 2 || ids[0] != "TEMPLATE-001" || ids[1] != "TEMPLATE-002" {
		t.Fatalf("load order not preserved: %v", ids)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, err := Load(strings.NewReader("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestRender(t *testing.T) {
	cat, err := Load(strings.NewReader(templatesJSON))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, _ := cat.Lookup("TEMPLATE-001")
	got := def.Render(map[string]string{
		"borrower_name": "Ada Byron",
		"loan_amount":   "$400,000.00",
		"interest_rate": "5.25%",
	})
	want := "CREDIT AGREEMENT\n\nBorrower: Ada Byron\nAmount: $400,000.00\nRate: 5.25%"
	if got != want {
		t.Fatalf("rendered:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	got := Render("Signed on {{agreement_date}} by {{witness_name}}.", map[string]string{
		"agreement_date": "2026-03-09",
	})
	want := "Signed on 2026-03-09 by {{witness_name}}."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderEmptyContext(t *testing.T) {
	body := "Borrower: {{borrower_name}}"
	if got := Render(body, nil); got != body {
		t.Fatalf("empty context must leave body untouched, got %q", got)
	}
}
