// Package backendclient talks to the planner backend over HTTP/JSON.
package backendclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Overland-East-Bay/itinerary-planner/internal/errors"
	"github.com/Overland-East-Bay/itinerary-planner/internal/platform/logger"
	"github.com/Overland-East-Bay/itinerary-planner/internal/wire"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Client implements the itinerary, generation, question and profile ports
// against one backend base URL. It is safe for concurrent use.
type Client struct {
	base *url.URL
	http *http.Client
	log  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a per-request timeout. Zero means none beyond the transport's.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https, got %q", baseURL)
	}
	c := &Client{base: u, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrDefault(c.log)
	return c, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return apperrors.Internal(err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("encode %s request: %w", path, err))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(body))
	if err != nil {
		return apperrors.Internal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileField, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return apperrors.Internal(err)
		}
	}
	fw, err := mw.CreateFormFile(fileField, filename)
	if err != nil {
		return apperrors.Internal(err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return apperrors.Internal(err)
	}
	if err := mw.Close(); err != nil {
		return apperrors.Internal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), &buf)
	if err != nil {
		return apperrors.Internal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

// do sends req and decodes a success envelope into out.
//
// Connectivity failures and non-success responses without a reason become
// Transport errors; a response carrying an error reason becomes Rejected with
// that reason verbatim.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("backend request failed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.String("error", err.Error()),
		)
		return apperrors.Transport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Transport(fmt.Errorf("read response: %w", err))
	}

	var env wire.Envelope
	decodeErr := json.Unmarshal(raw, &env)
	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300

	if decodeErr == nil && !env.Success && env.Error != "" {
		c.log.Debug("backend rejected request",
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("error", env.Error),
		)
		return apperrors.Rejected(env.Error)
	}
	if !ok2xx {
		return apperrors.Transport(fmt.Errorf("%s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode))
	}
	if decodeErr != nil {
		return apperrors.Transport(fmt.Errorf("decode response: %w", decodeErr))
	}
	if !env.Success {
		return apperrors.Transport(errors.New("response did not report success"))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.Transport(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func decodeLimited(r io.Reader, out any) error {
	return json.NewDecoder(io.LimitReader(r, maxResponseBytes)).Decode(out)
}
