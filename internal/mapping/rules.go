// File path: internal/mapping/rules.go

// Package mapping resolves the field-value context required to render a
// credit-agreement template from one unified application record. Each template
// id owns a rule set; supporting a new template means registering a new set,
// never touching the resolver.
package mapping

import (
	"fmt"
	"strconv"

	"github.com/camline/agreementd/internal/format"
	"github.com/camline/agreementd/internal/record"
)

// NotAvailable is substituted for any target field whose source is null.
const NotAvailable = format.NotAvailable

// DefaultTemplateID is the baseline template applied when an application row
// carries no template id.
const DefaultTemplateID = "TEMPLATE-001"

// RuleKind discriminates the two mapping rule variants.
type RuleKind int

const (
	// ColumnRef copies a source column verbatim.
	ColumnRef RuleKind = iota
	// Computed evaluates a pure function of the whole row.
	Computed
)

// ComputeFunc derives a value from the unified record. The boolean is false
// when a required input is null, in which case the resolver substitutes
// NotAvailable.
type ComputeFunc func(record.Row) (string, bool)

// Rule maps one target field to either a source column or a computed value.
type Rule struct {
	Kind    RuleKind
	Column  string
	Compute ComputeFunc
}

// Column builds a verbatim column-reference rule.
func Column(name string) Rule {
	return Rule{Kind: ColumnRef, Column: name}
}

// Derived builds a computed rule.
func Derived(fn ComputeFunc) Rule {
	return Rule{Kind: Computed, Compute: fn}
}

// RuleSet maps target field names to their rules for one template.
type RuleSet map[string]Rule

// Registry holds the rule sets keyed by template id.
type Registry struct {
	sets map[string]RuleSet
}

// NewRegistry returns a registry seeded with the built-in template rule sets.
func NewRegistry() *Registry {
	reg := &Registry{sets: make(map[string]RuleSet)}
	for id, set := range builtinRuleSets() {
		reg.Register(id, set)
	}
	return reg
}

// Register binds a rule set to a template id, replacing any previous set.
func (r *Registry) Register(templateID string, set RuleSet) {
	if r.sets == nil {
		r.sets = make(map[string]RuleSet)
	}
	r.sets[templateID] = set
}

// Lookup returns the rule set for the given template id. Unknown ids yield an
// empty set; the assembler then skips the row when the template catalog has no
// matching definition either.
func (r *Registry) Lookup(templateID string) (RuleSet, bool) {
	if r == nil || r.sets == nil {
		return nil, false
	}
	set, ok := r.sets[templateID]
	return set, ok
}

func builtinRuleSets() map[string]RuleSet {
	return map[string]RuleSet{
		"TEMPLATE-001": {
			"borrower_name":     Column("full_name"),
			"loan_amount":       Column("requested_amount"),
			"interest_rate":     Column("recommended_rate"),
			"loan_term":         Column("term_years"),
			"monthly_payment":   Column("estimated_monthly_payment"),
			"annual_income":     Column("annual_income"),
			"credit_score":      Column("credit_score"),
			"ltv_ratio":         Column("ltv_ratio"),
			"employment_status": Column("employment_status"),
			"borrower_address":  Derived(composeBorrowerAddress),
			"property_address":  Column("property_address"),
			"property_value":    Column("property_value"),
			"down_payment":      Derived(computeDownPayment),
		},
		"TEMPLATE-002": {
			"borrower_name":   Column("full_name"),
			"loan_amount":     Column("approved_amount"),
			"interest_rate":   Column("final_rate"),
			"loan_term":       Column("term_months"),
			"monthly_payment": Column("monthly_installment"),
			"annual_income":   Column("annual_income"),
			"credit_score":    Column("credit_score"),
			"loan_purpose":    Column("loan_purpose"),
		},
		"TEMPLATE-003": {
			"borrower_name":      Column("full_name"),
			"loan_amount":        Column("requested_amount"),
			"interest_rate":      Column("interest_percent"),
			"loan_term":          Column("loan_duration_years"),
			"monthly_payment":    Column("monthly_repayment"),
			"collateral_details": Column("collateral_details"),
		},
	}
}

// composeBorrowerAddress joins the four address parts into one line. All four
// must be non-null.
func composeBorrowerAddress(row record.Row) (string, bool) {
	line1, ok1 := row.Field("address_line1")
	city, ok2 := row.Field("city")
	state, ok3 := row.Field("state")
	zip, ok4 := row.Field("zip_code")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return "", false
	}
	return fmt.Sprintf("%s, %s, %s %s", line1, city, state, zip), true
}

// computeDownPayment derives the down payment as property value minus the
// requested amount. Both inputs must be non-null numbers.
func computeDownPayment(row record.Row) (string, bool) {
	propertyValue, ok := row.Field("property_value")
	if !ok {
		return "", false
	}
	requested, ok := row.Field("requested_amount")
	if !ok {
		return "", false
	}
	pv, err := strconv.ParseFloat(propertyValue, 64)
	if err != nil {
		return "", false
	}
	ra, err := strconv.ParseFloat(requested, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(pv-ra, 'f', -1, 64), true
}
