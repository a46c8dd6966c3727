// File path: internal/assembler/assembler.go

// Package assembler orchestrates document assembly per application row:
// mapping resolution, optional memo extraction and narrative generation,
// template rendering, and emission of the output record. Rows are processed
// independently; one row's failure never affects another's.
package assembler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/camline/agreementd/internal/catalog"
	"github.com/camline/agreementd/internal/common"
	"github.com/camline/agreementd/internal/docscan"
	"github.com/camline/agreementd/internal/mapping"
	"github.com/camline/agreementd/internal/narrative"
	"github.com/camline/agreementd/internal/record"
)

// State tracks a row through assembly.
type State string

const (
	StateMapped     State = "mapped"
	StateExtracting State = "extracting"
	StateGenerating State = "generating"
	StateRendered   State = "rendered"
	StateEmitted    State = "emitted"
	StateSkipped    State = "skipped"
)

// FallbackConditions is substituted when no narrative source text could be
// obtained for a row.
const FallbackConditions = "Approval conditions not available."

// Columns consulted on the unified record beyond the mapping rules.
const (
	colMemoContent = "cam_content"
	colDocumentKey = "cam_document_key"
)

const defaultCallTimeout = 90 * time.Second

// Assembler assembles one agreement per application row.
type Assembler struct {
	templates   *catalog.Catalog
	resolver    *mapping.Resolver
	analyzer    docscan.Analyzer
	generator   *narrative.Generator
	bucket      string
	date        string
	callTimeout time.Duration
}

// Option adjusts assembler construction.
type Option func(*Assembler)

// WithCallTimeout bounds each external extraction or generation call.
func WithCallTimeout(d time.Duration) Option {
	return func(a *Assembler) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

// New builds an assembler. The analyzer may be nil when no document-analysis
// service is configured; affected rows then degrade to the fallback sentinel.
func New(templates *catalog.Catalog, resolver *mapping.Resolver, analyzer docscan.Analyzer, generator *narrative.Generator, bucket string, date time.Time, opts ...Option) *Assembler {
	a := &Assembler{
		templates:   templates,
		resolver:    resolver,
		analyzer:    analyzer,
		generator:   generator,
		bucket:      bucket,
		date:        date.Format("2006-01-02"),
		callTimeout: defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run assembles every row of the unified record set and returns the output
// dataset in the fixed column order. Rows whose template id has no catalog
// definition are skipped entirely.
func (a *Assembler) Run(ctx context.Context, unified *record.Dataset) *record.Dataset {
	logger := common.Logger()
	out := record.NewDataset(OutputColumns()...)
	if unified == nil {
		return out
	}
	skipped := 0
	for _, row := range unified.Rows {
		agreement, state := a.assembleRow(ctx, row)
		if state == StateSkipped {
			skipped++
			continue
		}
		out.Append(agreement.Row())
	}
	logger.Info("assembler: run complete", "emitted", out.Len(), "skipped", skipped)
	return out
}

func (a *Assembler) assembleRow(ctx context.Context, row record.Row) (Agreement, State) {
	logger := common.Logger()
	applicationID, _ := row.Field("application_id")

	templateID := a.resolver.TemplateID(row)
	definition, ok := a.templates.Lookup(templateID)
	if !ok {
		logger.Warn("assembler: unknown template, skipping row", "application_id", applicationID, "template_id", templateID)
		return Agreement{}, StateSkipped
	}
	renderContext := a.resolver.Resolve(row, templateID)
	state := StateMapped

	conditions, state := a.resolveConditions(ctx, row, applicationID, state)
	renderContext["approval_conditions"] = conditions

	content := definition.Render(renderContext)
	state = StateRendered
	logger.Debug("assembler: row rendered", "application_id", applicationID, "template_id", templateID, "state", state)

	agreement := Agreement{
		AgreementID:     uuid.NewString(),
		CAMID:           fieldOr(row, "cam_id", mapping.NotAvailable),
		ApplicationID:   applicationID,
		ClientID:        fieldOr(row, "client_id", ""),
		ClientName:      fieldOr(row, "full_name", mapping.NotAvailable),
		TemplateID:      templateID,
		TemplateName:    definition.Name,
		LoanType:        fieldOr(row, "loan_type", mapping.NotAvailable),
		LoanAmount:      contextOr(renderContext, "loan_amount", mapping.NotAvailable),
		Content:         content,
		GenerationDate:  a.date,
		Status:          "Generated",
		ReviewRequired:  "Yes",
		ComplianceCheck: "Pending",
	}
	return agreement, StateEmitted
}

// resolveConditions determines the approval-conditions narrative for the row:
// pre-supplied memo text wins, then extraction plus generation from the
// scanned document, then the fallback sentinel. Extraction and generation
// failures are absorbed here and degrade to the sentinel.
func (a *Assembler) resolveConditions(ctx context.Context, row record.Row, applicationID string, state State) (string, State) {
	logger := common.Logger()
	sourceText, haveSource := row.Field(colMemoContent)

	if !haveSource {
		if key, ok := row.Field(colDocumentKey); ok {
			state = StateExtracting
			fields, err := a.extract(ctx, key)
			if err != nil {
				logger.Warn("assembler: memo extraction failed", "application_id", applicationID, "key", key, "error", err)
			} else if len(fields) > 0 {
				sourceText = docscan.SerializeFields(fields)
				haveSource = true
			}
		}
	}

	if !haveSource {
		return FallbackConditions, state
	}

	state = StateGenerating
	generated, err := a.generate(ctx, sourceText)
	if err != nil {
		logger.Warn("assembler: narrative generation failed", "application_id", applicationID, "error", err)
		return FallbackConditions, state
	}
	return generated, state
}

func (a *Assembler) extract(ctx context.Context, key string) (map[string]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	return docscan.ExtractFields(callCtx, a.analyzer, docscan.DocumentLocation{Bucket: a.bucket, Key: key})
}

func (a *Assembler) generate(ctx context.Context, sourceText string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()
	return a.generator.Generate(callCtx, sourceText)
}

func fieldOr(row record.Row, name, fallback string) string {
	if value, ok := row.Field(name); ok {
		return value
	}
	return fallback
}

func contextOr(values map[string]string, name, fallback string) string {
	if value, ok := values[name]; ok {
		return value
	}
	return fallback
}
