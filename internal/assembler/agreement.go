// File path: internal/assembler/agreement.go
package assembler

import "github.com/camline/agreementd/internal/record"

// Agreement is one generated output record. It is created once per
// successfully-mapped application row and never mutated afterwards.
type Agreement struct {
	AgreementID     string
	CAMID           string
	ApplicationID   string
	ClientID        string
	ClientName      string
	TemplateID      string
	TemplateName    string
	LoanType        string
	LoanAmount      string
	Content         string
	GenerationDate  string
	Status          string
	ReviewRequired  string
	ComplianceCheck string
}

// OutputColumns is the fixed column order of the output artifact.
func OutputColumns() []string {
	return []string{
		"agreement_id",
		"cam_id",
		"application_id",
		"client_id",
		"client_name",
		"template_id",
		"template_name",
		"loan_type",
		"loan_amount",
		"populated_agreement_content",
		"generation_date",
		"status",
		"review_required",
		"compliance_check",
	}
}

// Row converts the agreement to a tabular row using the output column names.
func (a Agreement) Row() record.Row {
	return record.Row{
		"agreement_id":                a.AgreementID,
		"cam_id":                      a.CAMID,
		"application_id":              a.ApplicationID,
		"client_id":                   a.ClientID,
		"client_name":                 a.ClientName,
		"template_id":                 a.TemplateID,
		"template_name":               a.TemplateName,
		"loan_type":                   a.LoanType,
		"loan_amount":                 a.LoanAmount,
		"populated_agreement_content": a.Content,
		"generation_date":             a.GenerationDate,
		"status":                      a.Status,
		"review_required":             a.ReviewRequired,
		"compliance_check":            a.ComplianceCheck,
	}
}
