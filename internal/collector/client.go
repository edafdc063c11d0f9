package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BigDataIA-Spring26-Team-5/PE-OrgAIR-Platform-Scoring-Engine-sub000/internal/evidence"
)

var ErrCompanyNotFound = errors.New("company not found")

// Company is the collector's profile of a scored company.
type Company struct {
	Ticker              string   `json:"ticker"`
	Name                string   `json:"name"`
	Sector              string   `json:"sector"`
	MarketCapPercentile *float64 `json:"mcap_percentile,omitempty"`
}

type Client interface {
	GetCompany(ctx context.Context, ticker string) (*Company, error)
	GetEvidence(ctx context.Context, ticker string) ([]evidence.Record, error)
	GetTalentSignals(ctx context.Context, ticker string) (evidence.TalentSignals, error)
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("collector %s %s: %w", method, path, ErrCompanyNotFound)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("collector %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func companyPath(ticker, suffix string) string {
	return "/api/v1/companies/" + url.PathEscape(strings.ToUpper(ticker)) + suffix
}

func (c *HTTPClient) GetCompany(ctx context.Context, ticker string) (*Company, error) {
	data, err := c.doReq(ctx, http.MethodGet, companyPath(ticker, ""))
	if err != nil {
		return nil, err
	}
	var company Company
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, fmt.Errorf("decode company %s: %w", ticker, err)
	}
	return &company, nil
}

// GetEvidence returns the raw records as the collector reports them. Records
// are not validated here; the engine rejects bad ones.
func (c *HTTPClient) GetEvidence(ctx context.Context, ticker string) ([]evidence.Record, error) {
	data, err := c.doReq(ctx, http.MethodGet, companyPath(ticker, "/evidence"))
	if err != nil {
		return nil, err
	}
	var records []evidence.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode evidence %s: %w", ticker, err)
	}
	return records, nil
}

func (c *HTTPClient) GetTalentSignals(ctx context.Context, ticker string) (evidence.TalentSignals, error) {
	data, err := c.doReq(ctx, http.MethodGet, companyPath(ticker, "/talent"))
	if err != nil {
		return evidence.TalentSignals{}, err
	}
	var signals evidence.TalentSignals
	if err := json.Unmarshal(data, &signals); err != nil {
		return evidence.TalentSignals{}, fmt.Errorf("decode talent signals %s: %w", ticker, err)
	}
	return signals, nil
}
