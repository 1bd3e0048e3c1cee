package ensembl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Ensembl REST endpoints.
const (
	GRCh37Server = "https://grch37.rest.ensembl.org"
	GRCh38Server = "https://rest.ensembl.org"

	EffectsEndpoint    = "vep/human/hgvs"
	VariationsEndpoint = "variation/homo_sapiens"
)

// Service limits on keys per POST.
const (
	MaxEffectsBatch    = 300
	MaxVariationsBatch = 200
)

// maxErrorBody bounds how much of a failed response is kept in a PostError.
const maxErrorBody = 512

// ServerURL returns the REST server for the given assembly.
func ServerURL(assembly string) string {
	if strings.EqualFold(assembly, "GRCh37") {
		return GRCh37Server
	}
	return GRCh38Server
}

// Client posts bulk lookups to the Ensembl REST API.
type Client struct {
	server     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the given server base URL.
func NewClient(server string, timeout time.Duration) *Client {
	return &Client{
		server: strings.TrimRight(server, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for request tracing.
func (c *Client) SetLogger(l *zap.Logger) {
	c.logger = l
}

// LookupEffects posts HGVS notations (e.g. "1:g.1158631A>G") to the VEP
// endpoint. Canonical flags and variant classes are requested so that
// multi-transcript payloads can be reduced deterministically.
func (c *Client) LookupEffects(ctx context.Context, keys []string) (map[string]*EffectPayload, error) {
	body, err := c.post(ctx, EffectsEndpoint+"?canonical=1&variant_class=1",
		map[string][]string{"hgvs_notations": keys})
	if err != nil {
		return nil, err
	}
	return DecodeEffects(body)
}

// LookupVariations posts variant identifiers (e.g. "rs6603781") to the
// variation endpoint.
func (c *Client) LookupVariations(ctx context.Context, ids []string) (map[string]*VariationPayload, error) {
	body, err := c.post(ctx, VariationsEndpoint, map[string][]string{"ids": ids})
	if err != nil {
		return nil, err
	}
	return DecodeVariations(body)
}

func (c *Client) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := c.server + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("ensembl response",
		zap.String("endpoint", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &PostError{
			StatusCode: resp.StatusCode,
			Endpoint:   url,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", url, err)
	}
	return body, nil
}

// PostError is returned when the service answers with a non-200 status.
type PostError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *PostError) Error() string {
	msg := fmt.Sprintf("POST %s: status %d", e.Endpoint, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Temporary reports whether retrying the request may succeed.
func (e *PostError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
