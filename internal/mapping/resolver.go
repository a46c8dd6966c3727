// File path: internal/mapping/resolver.go
package mapping

import (
	"github.com/camline/agreementd/internal/common"
	"github.com/camline/agreementd/internal/format"
	"github.com/camline/agreementd/internal/record"
)

// currencyFields and percentFields name the context fields that receive value
// formatting after mapping, when present.
var (
	currencyFields = []string{"loan_amount", "monthly_payment", "property_value", "down_payment"}
	percentFields  = []string{"interest_rate", "ltv_ratio"}
)

// Resolver turns one application row into the rendering context for its
// template. Defaults never override explicitly-resolved fields; they only
// fill gaps.
type Resolver struct {
	registry *Registry
	defaults map[string]string
}

// NewResolver builds a resolver over the given registry and run-wide default
// values.
func NewResolver(registry *Registry, defaults map[string]string) *Resolver {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Resolver{registry: registry, defaults: defaults}
}

// TemplateID returns the row's template id, falling back to the baseline
// template when the column is null.
func (r *Resolver) TemplateID(row record.Row) string {
	if id, ok := row.Field("template_id"); ok {
		return id
	}
	return DefaultTemplateID
}

// Resolve produces the field-value context for rendering the identified
// template against the row. Verbatim references copy the row's value or
// substitute NotAvailable when null; computed rules substitute NotAvailable
// when their required inputs are null. Currency and percentage formatting are
// applied afterwards, then defaults overlay the remaining gaps.
func (r *Resolver) Resolve(row record.Row, templateID string) map[string]string {
	set, known := r.registry.Lookup(templateID)
	if !known {
		common.Logger().Debug("mapping: no rule set for template", "template_id", templateID)
	}
	context := make(map[string]string, len(set)+len(r.defaults))
	for field, rule := range set {
		context[field] = applyRule(rule, row)
	}

	for _, field := range currencyFields {
		if value, ok := context[field]; ok {
			context[field] = format.Currency(value)
		}
	}
	for _, field := range percentFields {
		if value, ok := context[field]; ok {
			context[field] = format.Percentage(value)
		}
	}

	for field, value := range r.defaults {
		if _, resolved := context[field]; !resolved {
			context[field] = value
		}
	}
	return context
}

func applyRule(rule Rule, row record.Row) string {
	switch rule.Kind {
	case ColumnRef:
		if value, ok := row.Field(rule.Column); ok {
			return value
		}
		return NotAvailable
	case Computed:
		if rule.Compute == nil {
			return NotAvailable
		}
		if value, ok := rule.Compute(row); ok {
			return value
		}
		return NotAvailable
	default:
		return NotAvailable
	}
}
