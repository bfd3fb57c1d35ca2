// Package llamacloud implements the candidate retrieval pipeline on top of
// the LlamaCloud managed resume index: query building, retrieval with
// optional re-ranking, normalization of raw records and dedup/ranking.
package llamacloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spigell/talent-scout/internal/secrets"

	"go.uber.org/zap"
)

const (
	apiURL      = "https://api.cloud.llamaindex.ai"
	contentType = "application/json"

	// vectorOnlyAlpha restricts retrieval to pure vector similarity,
	// no lexical blending.
	vectorOnlyAlpha = 1.0

	defaultTimeout = 30 * time.Second
)

// Config holds index identifiers and credentials for the LlamaCloud API.
type Config struct {
	APIKey         string
	IndexName      string
	ProjectName    string
	OrganizationID string
	Timeout        time.Duration
}

// Client is a thin HTTP client for the LlamaCloud retrieval API. The pipeline
// backing the configured index is resolved by name on first use and cached
// for the lifetime of the client.
type Client struct {
	cfg    *Config
	logger *zap.Logger

	HTTPClient *http.Client
	APIURL     string

	mu         sync.Mutex
	pipelineID string
}

// RetrievalParams configure a single retrieval call.
type RetrievalParams struct {
	// TopK is the dense-similarity cutoff requested from the index.
	TopK int
	// EnableReranking toggles the secondary relevance pass.
	EnableReranking bool
}

// NewClient validates the configuration and returns a client. Missing or
// placeholder credentials and a missing index name are construction errors.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("llamacloud config is required")
	}

	if secrets.IsPlaceholder(cfg.APIKey) {
		return nil, errors.New("llamacloud api key is required and must be set to a valid key")
	}

	if strings.TrimSpace(cfg.IndexName) == "" {
		return nil, errors.New("llamacloud index name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger.Info("llamacloud client initialized", zap.String("index", cfg.IndexName))

	return &Client{
		cfg:    cfg,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// IndexName returns the configured index name.
func (c *Client) IndexName() string {
	return c.cfg.IndexName
}

// Retrieve runs the query against the index and returns the raw result
// records. Failures are returned as-is: no retries, no partial results.
func (c *Client) Retrieve(ctx context.Context, query string, params RetrievalParams) ([]map[string]any, error) {
	pipelineID, err := c.pipeline(ctx)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"query":                  query,
		"dense_similarity_top_k": params.TopK,
		"alpha":                  vectorOnlyAlpha,
		"enable_reranking":       params.EnableReranking,
	}

	c.logger.Debug("retrieving from llamacloud",
		zap.String("pipeline_id", pipelineID),
		zap.Int("top_k", params.TopK),
		zap.Bool("enable_reranking", params.EnableReranking),
	)

	var response struct {
		RetrievalNodes []map[string]any `json:"retrieval_nodes"`
	}

	endpoint := fmt.Sprintf("%s/api/v1/pipelines/%s/retrieve", c.APIURL, pipelineID)
	if err := c.postJSON(ctx, endpoint, body, &response); err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	c.logger.Debug("retrieved nodes from llamacloud", zap.Int("count", len(response.RetrievalNodes)))

	return response.RetrievalNodes, nil
}

// pipeline resolves the pipeline id for the configured index. Only a
// successful resolution is cached; failures are retried on the next call.
func (c *Client) pipeline(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pipelineID != "" {
		return c.pipelineID, nil
	}

	id, err := c.resolvePipeline(ctx)
	if err != nil {
		return "", err
	}

	c.pipelineID = id
	return id, nil
}

func (c *Client) resolvePipeline(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("pipeline_name", c.cfg.IndexName)
	if c.cfg.ProjectName != "" {
		q.Set("project_name", c.cfg.ProjectName)
	}
	if c.cfg.OrganizationID != "" && !secrets.IsPlaceholder(c.cfg.OrganizationID) {
		q.Set("organization_id", c.cfg.OrganizationID)
	}

	c.logger.Info("connecting to llamacloud index", zap.String("index", c.cfg.IndexName))

	var pipelines []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	endpoint := fmt.Sprintf("%s/api/v1/pipelines", c.APIURL)
	if err := c.getJSON(ctx, endpoint, q, &pipelines); err != nil {
		return "", fmt.Errorf("resolving index %q: %w", c.cfg.IndexName, err)
	}

	if len(pipelines) == 0 {
		return "", fmt.Errorf("index %q not found in project %q", c.cfg.IndexName, c.cfg.ProjectName)
	}

	c.logger.Info("connected to llamacloud index", zap.String("pipeline_id", pipelines[0].ID))

	return pipelines[0].ID, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	return c.do(req, target)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, target any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target any) error {
	c.setHeaders(req)
	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("llamacloud api error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if target == nil {
		return nil
	}

	return json.Unmarshal(data, target)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIKey))
	req.Header.Set("Accept", contentType)
}
