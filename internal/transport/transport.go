// Package transport performs single HTTP calls against the catalog service
// and classifies their outcome.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"caseable-catalog/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RequestIDHeader carries a fresh id on every outgoing call.
const RequestIDHeader = "X-Request-ID"

// DefaultVendor names the media type sent in the Accept header.
const DefaultVendor = "caseable"

// HTTPDoer is the part of *http.Client the transport needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds transport settings.
type Config struct {
	Vendor  string
	Timeout time.Duration // 0 means no timeout
}

// Endpoint is the configured target of a call.
type Endpoint struct {
	BaseURL string
	Lang    string
	Region  string
}

// Request describes one call. Params become the query string of a GET and
// are ignored otherwise; Body is sent verbatim on every other method.
type Request struct {
	Method      string
	Path        string
	Params      url.Values
	Body        []byte
	Credentials *model.Credentials
}

// Transport issues exactly one HTTP request per Do call and never retries.
type Transport struct {
	client HTTPDoer
	accept string
	logger zerolog.Logger
}

// New creates a transport backed by an instrumented http.Client.
func New(cfg Config, logger zerolog.Logger) *Transport {
	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	return NewWithDoer(httpClient, cfg, logger)
}

// NewWithDoer creates a transport that sends requests through doer.
func NewWithDoer(doer HTTPDoer, cfg Config, logger zerolog.Logger) *Transport {
	vendor := cfg.Vendor
	if vendor == "" {
		vendor = DefaultVendor
	}
	return &Transport{
		client: doer,
		accept: fmt.Sprintf("application/%s.v1+json", vendor),
		logger: logger.With().Str("component", "transport").Logger(),
	}
}

// Do sends req to ep and returns the JSON body of a 200 or 201 response.
// An empty successful body is returned as an empty object. Failures are
// *TransferError, *InvalidStatusError or *ParseError.
func (t *Transport) Do(ctx context.Context, ep Endpoint, req Request) (json.RawMessage, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := strings.TrimRight(ep.BaseURL, "/") + req.Path

	var body io.Reader
	if method == http.MethodGet {
		if query := encodeQuery(ep, req.Params); query != "" {
			target += "?" + query
		}
	} else if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransferError{Err: fmt.Errorf("new request: %w", err)}
	}

	requestID := uuid.New().String()
	httpReq.Header.Set("Accept", t.accept)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Credentials != nil {
		httpReq.SetBasicAuth(req.Credentials.User, req.Credentials.Pass)
	}

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Error().
			Err(err).
			Str("method", method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Msg("Catalog request failed")
		return nil, &TransferError{Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransferError{Err: fmt.Errorf("read body: %w", err)}
	}

	t.logger.Debug().
		Str("method", method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("Catalog request completed")

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		t.logger.Warn().
			Str("method", method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Str("request_id", requestID).
			Msg("Catalog request returned invalid status")

		statusErr := &InvalidStatusError{StatusCode: resp.StatusCode, Body: raw}
		var payload any
		if json.Unmarshal(raw, &payload) == nil {
			statusErr.Payload = payload
		}
		return nil, statusErr
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage(`{}`), nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &ParseError{Err: err, Raw: raw}
	}

	return json.RawMessage(raw), nil
}

// encodeQuery drops lang and region when the endpoint holds no value for
// them, then encodes the remaining params sorted by name.
func encodeQuery(ep Endpoint, params url.Values) string {
	if len(params) == 0 {
		return ""
	}

	values := make(url.Values, len(params))
	for name, v := range params {
		if name == "lang" && ep.Lang == "" {
			continue
		}
		if name == "region" && ep.Region == "" {
			continue
		}
		values[name] = v
	}

	return values.Encode()
}
