// AngelaMos | 2026
// client.go

package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/core"
)

// Client wraps outbound HTTP calls to the MODEP REST backend. The base
// URL is fixed configuration; every request carries the calling
// session's cookies, and every mutating request first fetches a fresh
// CSRF token through a side channel.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func New(cfg config.BackendConfig, tracer trace.Tracer) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracer: tracer,
	}
}

// Session carries the backend cookies (session id, csrftoken) of one
// console user. It is loaded from the session store per request and
// absorbs Set-Cookie headers from backend responses.
type Session struct {
	Cookies map[string]string
}

func NewSession() *Session {
	return &Session{Cookies: make(map[string]string)}
}

func SessionFromCookies(cookies map[string]string) *Session {
	if cookies == nil {
		cookies = make(map[string]string)
	}
	return &Session{Cookies: cookies}
}

func (s *Session) apply(req *http.Request) {
	for name, value := range s.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
}

func (s *Session) absorb(resp *http.Response) {
	for _, c := range resp.Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(s.Cookies, c.Name)
			continue
		}
		s.Cookies[c.Name] = c.Value
	}
}

func (c *Client) Get(
	ctx context.Context,
	sess *Session,
	path string,
	query url.Values,
	out any,
) error {
	return c.do(ctx, sess, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(
	ctx context.Context,
	sess *Session,
	path string,
	body, out any,
) error {
	return c.do(ctx, sess, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(
	ctx context.Context,
	sess *Session,
	path string,
	body, out any,
) error {
	return c.do(ctx, sess, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(
	ctx context.Context,
	sess *Session,
	path string,
	body, out any,
) error {
	return c.do(ctx, sess, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(
	ctx context.Context,
	sess *Session,
	path string,
) error {
	return c.do(ctx, sess, http.MethodDelete, path, nil, nil, nil)
}

// Document is an opaque downloaded artifact (membership card, receipt).
// The caller must close Body.
type Document struct {
	ContentType string
	Disposition string
	Body        io.ReadCloser
}

// Write streams the document to a client response, forwarding the
// backend's content headers.
func (d *Document) Write(w http.ResponseWriter) {
	if d.ContentType != "" {
		w.Header().Set("Content-Type", d.ContentType)
	}
	if d.Disposition != "" {
		w.Header().Set("Content-Disposition", d.Disposition)
	}

	//nolint:errcheck // best-effort stream to client
	_, _ = io.Copy(w, d.Body)
}

func (c *Client) Download(
	ctx context.Context,
	sess *Session,
	path string,
) (*Document, error) {
	ctx, span := c.startSpan(ctx, http.MethodGet, path)
	defer span.End()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+path,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}
	sess.apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf(
			"download %s: %w",
			path,
			errors.Join(core.ErrUnavailable, err),
		)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close() //nolint:errcheck // drained by decodeError
		span.SetStatus(codes.Error, resp.Status)
		return nil, decodeError(resp)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	return &Document{
		ContentType: resp.Header.Get("Content-Type"),
		Disposition: resp.Header.Get("Content-Disposition"),
		Body:        resp.Body,
	}, nil
}

func (c *Client) do(
	ctx context.Context,
	sess *Session,
	method, path string,
	query url.Values,
	body, out any,
) error {
	ctx, span := c.startSpan(ctx, method, path)
	defer span.End()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	sess.apply(req)

	if isMutating(method) {
		c.attachCSRF(ctx, sess, req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf(
			"%s %s: %w",
			method,
			path,
			errors.Join(core.ErrUnavailable, err),
		)
	}
	defer resp.Body.Close() //nolint:errcheck // response fully consumed

	sess.absorb(resp)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
		return decodeError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// attachCSRF fetches a fresh anti-forgery token and attaches it.
// Failure is logged but never blocks the primary request.
func (c *Client) attachCSRF(
	ctx context.Context,
	sess *Session,
	req *http.Request,
) {
	token, err := c.CSRFToken(ctx, sess)
	if err != nil {
		slog.Warn("csrf token fetch failed, sending without token",
			"error", err,
			"path", req.URL.Path,
		)
		return
	}

	req.Header.Set("X-CSRFToken", token)
}

func (c *Client) startSpan(
	ctx context.Context,
	method, path string,
) (context.Context, trace.Span) {
	return c.tracer.Start(
		ctx,
		"backend "+method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
