package poster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/model"
)

var posterLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	posterLogger = l
}

var ErrUnexpectedStatus = errors.New("unexpected response status")

// StatusError reports a non-2xx answer from the endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(config.ErrUnexpectedStatusFmt, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

type Client struct {
	endpoint string
	http     *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New returns a client posting to endpoint. A zero timeout means the request
// runs until the transport gives up.
func New(endpoint string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send posts the draft once. Any 2xx is success and the body is ignored.
// Transport failures come back without the *url.Error wrapper so their text
// reads as a plain description.
func (c *Client) Send(ctx context.Context, d *model.Draft) error {
	payload, err := BuildPayload(d)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload.Body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(config.HCType, payload.ContentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		posterLogger.Error().Err(err).Str("endpoint", c.endpoint).Msg("Posting notice failed")

		var uerr *url.Error
		if errors.As(err, &uerr) {
			return uerr.Err
		}
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	posterLogger.Debug().
		Str("endpoint", c.endpoint).
		Int("status", resp.StatusCode).
		Int("bytes", len(payload.Body)).
		Dur("elapsed", time.Since(start)).
		Msg("Notice posted")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode}
	}
	return nil
}
