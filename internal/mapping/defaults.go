// File path: internal/mapping/defaults.go
package mapping

import (
	"strings"
	"time"
)

const (
	defaultLenderName   = "Citi Private Bank"
	defaultPaymentDay   = "1st"
	defaultGracePeriod  = "15"
	defaultJurisdiction = "New York"
)

// RunDefaults builds the run-wide default context values: agreement date,
// lender name, payment day, grace period and governing jurisdiction. Blank
// overrides keep the built-in values.
func RunDefaults(agreementDate time.Time, lenderName, jurisdiction string) map[string]string {
	if strings.TrimSpace(lenderName) == "" {
		lenderName = defaultLenderName
	}
	if strings.TrimSpace(jurisdiction) == "" {
		jurisdiction = defaultJurisdiction
	}
	return map[string]string{
		"agreement_date":     agreementDate.Format("2006-01-02"),
		"lender_name":        lenderName,
		"payment_day":        defaultPaymentDay,
		"grace_period":       defaultGracePeriod,
		"state_jurisdiction": jurisdiction,
	}
}
