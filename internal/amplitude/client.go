// Package amplitude implements the outbound delivery half of the tracking
// pipeline: a thin client for the Amplitude HTTP API v2.
package amplitude

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/zeebo/errs"

	"github.com/amptrack/amptrack/internal/event"
)

// EndpointURL is the fixed Amplitude ingestion endpoint.
// https://developers.amplitude.com/docs/http-api-v2
const EndpointURL = "https://api.amplitude.com/2/httpapi"

const defaultTimeout = 10 * time.Second

// Error is the error class for delivery failures.
var Error = errs.Class("amplitude client")

// Client sends event batches to the Amplitude ingestion endpoint. It performs
// no retries and no buffering; each SendEvents call is one POST.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// Options tune a Client beyond its defaults. The zero value is valid.
type Options struct {
	// Endpoint overrides the fixed ingestion URL. Tests only.
	Endpoint string
	// Timeout bounds each delivery attempt. Defaults to 10s.
	Timeout time.Duration
	// HTTPClient overrides the underlying client. Its own timeout wins.
	HTTPClient *http.Client
}

// NewClient creates a Client for the given API key.
func NewClient(apiKey string, log zerolog.Logger, opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = EndpointURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: opts.Endpoint,
		http:     hc,
		log:      log,
	}
}

type uploadBody struct {
	Events []event.Event `json:"events"`
	APIKey string        `json:"api_key"`
}

// SendEvents sanitizes each event and posts the batch in a single request.
// On a 2xx response the parsed JSON body is returned verbatim; any other
// status or a transport-level failure yields an Error-classed error. The
// response schema is not enforced.
func (c *Client) SendEvents(ctx context.Context, events []event.Event) (map[string]any, error) {
	clean := make([]event.Event, 0, len(events))
	for _, ev := range events {
		clean = append(clean, ev.Sanitize())
	}

	body, err := json.Marshal(uploadBody{Events: clean, APIKey: c.apiKey})
	if err != nil {
		return nil, Error.Wrap(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, Error.Wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().Int("status", resp.StatusCode).Bytes("body", raw).Msg("delivery rejected")
		return nil, Error.New("unexpected status %d", resp.StatusCode)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, Error.Wrap(err)
	}
	return parsed, nil
}
