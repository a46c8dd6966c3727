// File path: internal/pipeline/runner.go

// Package pipeline drives a full assembly run: read the six source datasets
// and the template catalog from storage, merge, assemble, write the output
// artifact, and record the run in the catalog store.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/camline/agreementd/internal/assembler"
	"github.com/camline/agreementd/internal/catalog"
	"github.com/camline/agreementd/internal/common"
	"github.com/camline/agreementd/internal/docscan"
	"github.com/camline/agreementd/internal/llm"
	"github.com/camline/agreementd/internal/mapping"
	"github.com/camline/agreementd/internal/narrative"
	"github.com/camline/agreementd/internal/record"
	"github.com/camline/agreementd/internal/sqlite"
	"github.com/camline/agreementd/internal/storage"
)

// Dataset object names under the input prefix.
const (
	datasetClients               = "clients.csv"
	datasetLoanApplications      = "loan_applications.csv"
	datasetBorrowingRequests     = "borrowing_requests.csv"
	datasetUnderwritingDecisions = "underwriting_decisions.csv"
	datasetApprovalMemos         = "credit_approval_memos.csv"
	datasetTermSheets            = "term_sheets.csv"
)

// Result summarizes one completed run.
type Result struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	InputRows   int       `json:"input_rows"`
	Emitted     int       `json:"emitted"`
	Skipped     int       `json:"skipped"`
	OutputKey   string    `json:"output_key"`
}

// Runner wires the collaborators of the assembly pipeline. The analyzer may
// be nil when no document-analysis service is configured.
type Runner struct {
	cfg      Config
	store    storage.ObjectStore
	catalog  *sqlite.Store
	analyzer docscan.Analyzer
	provider llm.Provider
	registry *mapping.Registry
}

// NewRunner constructs a pipeline runner. The catalog store is optional; runs
// simply go unrecorded without it.
func NewRunner(cfg Config, store storage.ObjectStore, catalogStore *sqlite.Store, analyzer docscan.Analyzer, provider llm.Provider) (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("pipeline: invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("pipeline: object store required")
	}
	return &Runner{
		cfg:      cfg,
		store:    store,
		catalog:  catalogStore,
		analyzer: analyzer,
		provider: provider,
		registry: mapping.NewRegistry(),
	}, nil
}

// Run executes one full assembly pass. Only unreadable inputs or an
// unreadable template catalog abort the run; everything else is absorbed at
// the row boundary.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	logger := common.Logger()
	started := time.Now().UTC()
	runID := uuid.NewString()
	logger.Info("pipeline: run starting", "run_id", runID, "bucket", r.cfg.Bucket)

	sources, err := r.loadSources(ctx)
	if err != nil {
		return Result{}, err
	}
	templates, err := r.loadTemplates(ctx)
	if err != nil {
		return Result{}, err
	}

	unified, err := record.Merge(sources)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: merge sources: %w", err)
	}

	defaults := mapping.RunDefaults(started, r.cfg.LenderName, r.cfg.Jurisdiction)
	resolver := mapping.NewResolver(r.registry, defaults)
	generator := narrative.NewGenerator(r.provider)
	asm := assembler.New(templates, resolver, r.analyzer, generator, r.cfg.Bucket, started,
		assembler.WithCallTimeout(r.cfg.CallTimeout))

	output := asm.Run(ctx, unified)

	if err := r.writeOutput(ctx, output); err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:       runID,
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
		InputRows:   unified.Len(),
		Emitted:     output.Len(),
		Skipped:     unified.Len() - output.Len(),
		OutputKey:   r.cfg.OutputKey,
	}
	r.recordRun(ctx, result, output)
	logger.Info("pipeline: run complete", "run_id", runID, "emitted", result.Emitted, "skipped", result.Skipped)
	return result, nil
}

func (r *Runner) loadSources(ctx context.Context) (record.Sources, error) {
	var sources record.Sources
	loads := []struct {
		name   string
		target **record.Dataset
	}{
		{datasetClients, &sources.Clients},
		{datasetLoanApplications, &sources.LoanApplications},
		{datasetBorrowingRequests, &sources.BorrowingRequests},
		{datasetUnderwritingDecisions, &sources.UnderwritingDecisions},
		{datasetApprovalMemos, &sources.ApprovalMemos},
		{datasetTermSheets, &sources.TermSheets},
	}
	for _, load := range loads {
		ds, err := r.loadDataset(ctx, r.cfg.InputPrefix+load.name)
		if err != nil {
			return record.Sources{}, fmt.Errorf("pipeline: load %s: %w", load.name, err)
		}
		*load.target = ds
	}
	return sources, nil
}

func (r *Runner) loadDataset(ctx context.Context, key string) (*record.Dataset, error) {
	body, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return record.ReadCSV(body)
}

func (r *Runner) loadTemplates(ctx context.Context) (*catalog.Catalog, error) {
	body, err := r.store.Get(ctx, r.cfg.TemplatesKey)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load template catalog: %w", err)
	}
	defer body.Close()
	templates, err := catalog.Load(body)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return templates, nil
}

// Templates loads the current template catalog from storage.
func (r *Runner) Templates(ctx context.Context) ([]catalog.Definition, error) {
	templates, err := r.loadTemplates(ctx)
	if err != nil {
		return nil, err
	}
	return templates.Definitions(), nil
}

func (r *Runner) writeOutput(ctx context.Context, output *record.Dataset) error {
	var buf bytes.Buffer
	if err := record.WriteCSV(&buf, output); err != nil {
		return fmt.Errorf("pipeline: encode output: %w", err)
	}
	if err := r.store.Put(ctx, r.cfg.OutputKey, bytes.NewReader(buf.Bytes()), int64(buf.Len()), "text/csv"); err != nil {
		return fmt.Errorf("pipeline: write output: %w", err)
	}
	return nil
}

// recordRun persists the run in the catalog store. Failures are logged, not
// fatal: the output artifact has already been written.
func (r *Runner) recordRun(ctx context.Context, result Result, output *record.Dataset) {
	if r.catalog == nil {
		return
	}
	run := sqlite.RunRecord{
		ID:          result.RunID,
		StartedAt:   result.StartedAt,
		CompletedAt: result.CompletedAt,
		InputRows:   result.InputRows,
		Emitted:     result.Emitted,
		Skipped:     result.Skipped,
		OutputKey:   result.OutputKey,
	}
	agreements := make([]sqlite.AgreementRecord, 0, output.Len())
	for _, row := range output.Rows {
		agreements = append(agreements, sqlite.AgreementRecord{
			AgreementID:   row["agreement_id"],
			RunID:         result.RunID,
			ApplicationID: row["application_id"],
			ClientID:      row["client_id"],
			ClientName:    row["client_name"],
			TemplateID:    row["template_id"],
			TemplateName:  row["template_name"],
			LoanType:      row["loan_type"],
			LoanAmount:    row["loan_amount"],
			Status:        row["status"],
			CreatedAt:     result.CompletedAt,
		})
	}
	if err := r.catalog.RecordRun(ctx, run, agreements); err != nil {
		common.Logger().Warn("pipeline: record run failed", "run_id", result.RunID, "error", err)
	}
}
