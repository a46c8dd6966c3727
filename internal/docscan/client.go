// File path: internal/docscan/client.go
package docscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/camline/agreementd/internal/common"
)

// ClientConfig configures the HTTP analyzer client.
type ClientConfig struct {
	Endpoint string
	APIToken string
	Timeout  time.Duration
}

// Client calls a forms-analysis HTTP service implementing the Analyzer port.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

type analyzeRequest struct {
	Bucket   string   `json:"bucket"`
	Key      string   `json:"key"`
	Features []string `json:"features"`
}

type analyzeResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"msg"`
	Data    AnalysisResult `json:"data"`
}

// NewClient constructs an analyzer client. The endpoint is required; the
// timeout defaults to 60 seconds so a stalled service call cannot block a run
// indefinitely.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("docscan: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// AnalyzeDocument requests a FORMS analysis of the stored document and
// returns the detected block structure.
func (c *Client) AnalyzeDocument(ctx context.Context, loc DocumentLocation) (*AnalysisResult, error) {
	payload, err := json.Marshal(analyzeRequest{Bucket: loc.Bucket, Key: loc.Key, Features: []string{"FORMS"}})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/v1/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send analyze request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analyze response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyze service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded analyzeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("parse analyze response: %w", err)
	}
	if decoded.Code != 0 {
		return nil, fmt.Errorf("analyze service error: %s", decoded.Message)
	}
	common.Logger().Debug("docscan: document analyzed", "key", loc.Key, "blocks", len(decoded.Data.Blocks), "dur", time.Since(start))
	return &decoded.Data, nil
}
