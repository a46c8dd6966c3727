// File path: internal/pipeline/runner_test.go
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camline/agreementd/internal/llm"
	"github.com/camline/agreementd/internal/record"
	"github.com/camline/agreementd/internal/sqlite"
	"github.com/camline/agreementd/internal/storage"
)

func writeInput(t *testing.T, root, key, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", key, err)
	}
}

func seedInputs(t *testing.T, root string) {
	t.Helper()
	writeInput(t, root, "CAMS/clients.csv",
		"client_id,full_name,annual_income,credit_score,employment_status,address_line1,city,state,zip_code\n"+
			"C-1,Ada Byron,185000,742,Employed,12 Elm St,Scarsdale,NY,10583\n")
	writeInput(t, root, "CAMS/loan_applications.csv",
		"application_id,client_id,loan_type,requested_amount,template_id\n"+
			"APP-1,C-1,Mortgage,400000,TEMPLATE-001\n"+
			"APP-2,C-1,Mortgage,100000,TEMPLATE-404\n")
	writeInput(t, root, "CAMS/borrowing_requests.csv",
		"application_id,client_id,requested_amount,property_value,property_address\n"+
			"APP-1,C-1,400000,500000,44 Birch Rd\n")
	writeInput(t, root, "CAMS/underwriting_decisions.csv",
		"application_id,recommended_rate,ltv_ratio\nAPP-1,5.25,80\n")
	writeInput(t, root, "CAMS/credit_approval_memos.csv",
		"application_id,cam_id,cam_content\nAPP-1,CAM-1,Strong income and reserves.\n")
	writeInput(t, root, "CAMS/term_sheets.csv",
		"application_id,term_years,estimated_monthly_payment\nAPP-1,30,2208.81\n")
	writeInput(t, root, "CAMS/credit_agreement_templates.json", `[
  {
    "template_id": "TEMPLATE-001",
    "template_name": "Residential Mortgage Agreement",
    "template_content": "Borrower: {{borrower_name}}\nAmount: {{loan_amount}}\nLender: {{lender_name}}\nConditions: {{approval_conditions}}"
  }
]`)
}

type stubProvider struct {
	reply string
	calls int
}

func (s *stubProvider) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	s.calls++
	return s.reply, nil
}

func (s *stubProvider) Name() string { return "stub" }

func newTestRunner(t *testing.T, root string, catalogStore *sqlite.Store, provider llm.Provider) *Runner {
	t.Helper()
	store, err := storage.NewFSStore(root)
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	runner, err := NewRunner(DefaultConfig(), store, catalogStore, nil, provider)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return runner
}

func TestRunEndToEnd(t *testing.T) {
	root := t.TempDir()
	seedInputs(t, root)
	provider := &stubProvider{reply: "1. Verify income documents."}
	runner := newTestRunner(t, root, nil, provider)

	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.InputRows != 2 || result.Emitted != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.RunID == "" {
		t.Fatalf("run id missing")
	}
	if provider.calls != 1 {
		t.Fatalf("expected one generation call, got %d", provider.calls)
	}

	raw, err := os.ReadFile(filepath.Join(root, "output", "populated_credit_agreements.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	output, err := record.ReadCSV(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if output.Len() != 1 {
		t.Fatalf("expected 1 output row, got %d", output.Len())
	}
	row := output.Rows[0]
	if got, _ := row.Field("application_id"); got != "APP-1" {
		t.Fatalf("application_id: %q", got)
	}
	if got, _ := row.Field("loan_amount"); got != "$400,000.00" {
		t.Fatalf("loan_amount: %q", got)
	}
	content, _ := row.Field("populated_agreement_content")
	if !strings.Contains(content, "Borrower: Ada Byron") {
		t.Fatalf("content missing borrower: %q", content)
	}
	if !strings.Contains(content, "Lender: Citi Private Bank") {
		t.Fatalf("content missing default lender: %q", content)
	}
	if !strings.Contains(content, "Conditions: 1. Verify income documents.") {
		t.Fatalf("content missing conditions: %q", content)
	}
}

func TestRunRecordsCatalog(t *testing.T) {
	root := t.TempDir()
	seedInputs(t, root)
	catalogStore, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	defer catalogStore.Close()

	runner := newTestRunner(t, root, catalogStore, &stubProvider{reply: "1. Verify."})
	result, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	runs, err := catalogStore.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != result.RunID {
		t.Fatalf("run not recorded: %+v", runs)
	}
	agreements, err := catalogStore.Agreements(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("agreements: %v", err)
	}
	if len(agreements) != 1 || agreements[0].ApplicationID != "APP-1" {
		t.Fatalf("agreements not recorded: %+v", agreements)
	}
}

func TestRunMissingDatasetFails(t *testing.T) {
	root := t.TempDir()
	seedInputs(t, root)
	if err := os.Remove(filepath.Join(root, "CAMS", "term_sheets.csv")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	runner := newTestRunner(t, root, nil, &stubProvider{})
	if _, err := runner.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing dataset")
	}
}

func TestNewRunnerValidatesConfig(t *testing.T) {
	store, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("fs store: %v", err)
	}
	cfg := DefaultConfig()
	cfg.OutputKey = ""
	if _, err := NewRunner(cfg, store, nil, nil, nil); err == nil {
		t.Fatalf("expected config validation error")
	}
	if _, err := NewRunner(DefaultConfig(), nil, nil, nil, nil); err == nil {
		t.Fatalf("expected error for missing object store")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("AGREEMENTD_BUCKET", "custom-bucket")
	t.Setenv("AGREEMENTD_LENDER_NAME", "First Harbor Trust")
	t.Setenv("AGREEMENTD_CALL_TIMEOUT", "30s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Bucket != "custom-bucket" {
		t.Fatalf("bucket: %q", cfg.Bucket)
	}
	if cfg.LenderName != "First Harbor Trust" {
		t.Fatalf("lender: %q", cfg.LenderName)
	}
	if cfg.CallTimeout != 30*time.Second {
		t.Fatalf("timeout: %v", cfg.CallTimeout)
	}
	if cfg.InputPrefix != "CAMS/" {
		t.Fatalf("input prefix default lost: %q", cfg.InputPrefix)
	}
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("AGREEMENTD_CALL_TIMEOUT", "not-a-duration")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}
