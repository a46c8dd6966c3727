// File path: internal/sqlite/store_test.go
package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(id string, started time.Time) RunRecord {
	return RunRecord{
		ID:          id,
		StartedAt:   started,
		CompletedAt: started.Add(2 * time.Second),
		InputRows:   3,
		Emitted:     2,
		Skipped:     1,
		OutputKey:   "output/populated_credit_agreements.csv",
	}
}

func sampleAgreement(agreementID, runID, applicationID string, created time.Time) AgreementRecord {
	return AgreementRecord{
		AgreementID:   agreementID,
		RunID:         runID,
		ApplicationID: applicationID,
		ClientID:      "C-1",
		ClientName:    "Ada Byron",
		TemplateID:    "TEMPLATE-001",
		TemplateName:  "Residential Mortgage Agreement",
		LoanType:      "Mortgage",
		LoanAmount:    "$400,000.00",
		Status:        "Generated",
		CreatedAt:     created,
	}
}

func TestRecordRunAndQuery(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	run := sampleRun("run-1", started)
	agreements := []AgreementRecord{
		sampleAgreement("ag-1", "run-1", "APP-1", started),
		sampleAgreement("ag-2", "run-1", "APP-2", started.Add(time.Second)),
	}
	if err := store.RecordRun(ctx, run, agreements); err != nil {
		t.Fatalf("record run: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != "run-1" || runs[0].Emitted != 2 || runs[0].Skipped != 1 {
		t.Fatalf("unexpected run record: %+v", runs[0])
	}

	stored, err := store.Agreements(ctx, "run-1")
	if err != nil {
		t.Fatalf("agreements: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 agreements, got %d", len(stored))
	}
	if stored[0].AgreementID != "ag-2" {
		t.Fatalf("agreements should list newest first, got %s", stored[0].AgreementID)
	}
	if stored[0].LoanAmount != "$400,000.00" || stored[0].Status != "Generated" {
		t.Fatalf("unexpected agreement record: %+v", stored[0])
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := sampleRun("run-"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		if err := store.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("record run %d: %v", i, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-c" || runs[1].ID != "run-b" {
		t.Fatalf("runs not newest first: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestAgreementsAcrossRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	if err := store.RecordRun(ctx, sampleRun("run-1", base), []AgreementRecord{
		sampleAgreement("ag-1", "run-1", "APP-1", base),
	}); err != nil {
		t.Fatalf("record run-1: %v", err)
	}
	if err := store.RecordRun(ctx, sampleRun("run-2", base.Add(time.Minute)), []AgreementRecord{
		sampleAgreement("ag-2", "run-2", "APP-2", base.Add(time.Minute)),
	}); err != nil {
		t.Fatalf("record run-2: %v", err)
	}

	all, err := store.Agreements(ctx, "")
	if err != nil {
		t.Fatalf("agreements: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 agreements across runs, got %d", len(all))
	}
	scoped, err := store.Agreements(ctx, "run-2")
	if err != nil {
		t.Fatalf("scoped agreements: %v", err)
	}
	if len(scoped) != 1 || scoped[0].AgreementID != "ag-2" {
		t.Fatalf("unexpected scoped agreements: %+v", scoped)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := OpenWithConfig(Config{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
