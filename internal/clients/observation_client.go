package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cdeia/observaciones/config"
	"github.com/cdeia/observaciones/internal/models"
	"golang.org/x/oauth2"
)

// ObservationClient posts observation requests to the hosted scoring service.
// It holds no per-call state and never retries.
type ObservationClient struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

type Option func(*ObservationClient)

// WithTimeout overrides DefaultSubmitTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *ObservationClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport sets the round tripper beneath the bearer token transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *ObservationClient) {
		c.transport = rt
	}
}

func NewObservationClient(baseURL string, opts ...Option) *ObservationClient {
	c := &ObservationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultSubmitTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	slog.Debug("[ObservationClient] Initializing client",
		slog.String("base_url", c.baseURL),
		slog.Duration("timeout", c.timeout))
	return c
}

func (c *ObservationClient) Endpoint() string {
	return c.baseURL + OBSERVATIONS_PATH
}

func (c *ObservationClient) Timeout() time.Duration {
	return c.timeout
}

// Submit sends one observation request and waits for the proposals.
//
// A missing credential fails with *ConfigurationError and empty fields with
// *models.MissingFieldError, both before any network call. Every later failure
// is a *RequestError wrapping one of *HTTPStatusError, *ConnectionError,
// *TimeoutError, *MalformedResponseError or *UnexpectedError.
func (c *ObservationClient) Submit(ctx context.Context, req models.ObservationRequest, creds config.Credentials) (*models.ObservationResponse, error) {
	if creds.Empty() {
		slog.Error("[ObservationClient] Missing bearer token, request not sent")
		return nil, &ConfigurationError{Reason: "API key is missing or empty, set " + config.API_KEY_ENV}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req.Payload())
	if err != nil {
		return nil, &UnexpectedError{Detail: fmt.Sprintf("failed to marshal payload: %v", err)}
	}

	endpoint := c.Endpoint()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("failed to build request for %s: %v", endpoint, err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", USER_AGENT)

	slog.Info("[ObservationClient] Requesting observations from scoring service",
		slog.String("endpoint", endpoint),
		slog.Int("text_length", len(req.BodyText)))
	start := time.Now()

	proposals, err := c.do(c.httpClient(creds), httpReq)
	elapsed := time.Since(start)
	if err != nil {
		slog.Error("[ObservationClient] Observation request failed",
			slog.String("endpoint", endpoint),
			slog.String("kind", Kind(err)),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", elapsed))
		return nil, &RequestError{URL: endpoint, Elapsed: elapsed, Err: err}
	}

	slog.Info("[ObservationClient] Observation request successful",
		slog.Int("proposals", len(proposals)),
		slog.Duration("elapsed", elapsed))

	return &models.ObservationResponse{Proposals: proposals, Elapsed: elapsed}, nil
}

func (c *ObservationClient) httpClient(creds config.Credentials) *http.Client {
	return &http.Client{
		Timeout: c.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(creds.Token)}),
			Base:   c.transport,
		},
	}
}

func (c *ObservationClient) do(client *http.Client, req *http.Request) (proposals []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			proposals = nil
			err = &UnexpectedError{Detail: fmt.Sprintf("panic while processing response: %v", r)}
		}
	}()

	resp, err := client.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Timeout: c.timeout}
		}
		return nil, &UnexpectedError{Detail: fmt.Sprintf("failed to read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("[ObservationClient] Scoring service returned an error status",
			slog.Int("status", resp.StatusCode),
			getPreview(raw))
		return nil, &HTTPStatusError{
			Code: resp.StatusCode,
			Body: decodeErrorBody(raw),
			Raw:  string(raw),
		}
	}

	decoded, err := decodeJSON(raw)
	if err != nil {
		slog.Error("[ObservationClient] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(raw),
			slog.Int("raw_response_length", len(raw)))
		return nil, &UnexpectedError{Detail: fmt.Sprintf("failed to decode response: %v", err)}
	}

	return NormalizeProposals(decoded)
}

func (c *ObservationClient) transportError(err error) error {
	if isTimeout(err) {
		return &TimeoutError{Timeout: c.timeout}
	}

	reason := err.Error()
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		reason = urlErr.Err.Error()
	}
	return &ConnectionError{Reason: reason}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return decoded, nil
}

// decodeErrorBody makes one JSON decode attempt and falls back to the raw text.
func decodeErrorBody(raw []byte) any {
	decoded, err := decodeJSON(raw)
	if err != nil {
		return string(raw)
	}
	return decoded
}

// getPreview cuts raw to at most rawPreviewLength bytes without splitting a rune.
func getPreview(raw []byte) slog.Attr {
	if len(raw) <= rawPreviewLength {
		return slog.String("raw_response", string(raw))
	}
	cut := rawPreviewLength
	for cut > 0 && !utf8.RuneStart(raw[cut]) {
		cut--
	}
	return slog.String("raw_response", string(raw[:cut]))
}
