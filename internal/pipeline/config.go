// File path: internal/pipeline/config.go
package pipeline

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config controls one assembly pipeline run: where the datasets and template
// catalog live, where the output artifact goes, and the run-wide defaults.
type Config struct {
	Bucket       string
	InputPrefix  string
	TemplatesKey string
	OutputKey    string
	LenderName   string
	Jurisdiction string
	CallTimeout  time.Duration
}

// DefaultConfig returns the baseline pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Bucket:       "cams-input",
		InputPrefix:  "CAMS/",
		TemplatesKey: "CAMS/credit_agreement_templates.json",
		OutputKey:    "output/populated_credit_agreements.csv",
		CallTimeout:  90 * time.Second,
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_BUCKET")); value != "" {
		cfg.Bucket = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_INPUT_PREFIX")); value != "" {
		cfg.InputPrefix = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_TEMPLATES_KEY")); value != "" {
		cfg.TemplatesKey = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_OUTPUT_KEY")); value != "" {
		cfg.OutputKey = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_LENDER_NAME")); value != "" {
		cfg.LenderName = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_JURISDICTION")); value != "" {
		cfg.Jurisdiction = value
	}
	if value := strings.TrimSpace(os.Getenv("AGREEMENTD_CALL_TIMEOUT")); value != "" {
		dur, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse AGREEMENTD_CALL_TIMEOUT: %w", err)
		}
		cfg.CallTimeout = dur
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.InputPrefix) == "" {
		return fmt.Errorf("input prefix required")
	}
	if strings.TrimSpace(c.TemplatesKey) == "" {
		return fmt.Errorf("templates key required")
	}
	if strings.TrimSpace(c.OutputKey) == "" {
		return fmt.Errorf("output key required")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive")
	}
	return nil
}
