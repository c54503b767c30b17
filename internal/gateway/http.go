package gateway

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

const tracerName = "github.com/julianstephens/habitual/internal/gateway"

// maxErrorBody bounds how much of an error response ends up in the log
const maxErrorBody = 512

// HTTPGateway is a Gateway over a json-server style REST resource
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	tracer  trace.Tracer
}

// Option configures an HTTPGateway
type Option func(*HTTPGateway)

// WithHTTPClient replaces the default client; its own timeout applies
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) { g.client = client }
}

// WithTimeout sets the per-request timeout of the default client
func WithTimeout(timeout time.Duration) Option {
	return func(g *HTTPGateway) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// WithTracerProvider traces calls with tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *HTTPGateway) { g.tracer = tp.Tracer(tracerName) }
}

// NewHTTPGateway creates a gateway for the habits collection under baseURL
func NewHTTPGateway(baseURL string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: constants.DefaultHTTPTimeout,
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.client == nil {
		g.client = &http.Client{Timeout: g.timeout}
	}
	return g
}

func (g *HTTPGateway) collectionURL() string {
	return g.baseURL + "/" + constants.HabitsResource
}

func (g *HTTPGateway) itemURL(id string) string {
	return g.collectionURL() + "/" + url.PathEscape(id)
}

func (g *HTTPGateway) FetchAll(ctx context.Context) ([]models.Habit, bool) {
	var wire []wireHabit
	if !g.do(ctx, "FetchAll", http.MethodGet, g.collectionURL(), nil, &wire) {
		return nil, false
	}

	habits := make([]models.Habit, 0, len(wire))
	for _, w := range wire {
		h, err := w.toModel()
		if err != nil {
			logger.Warn("Skipping remote habit", "error", err)
			continue
		}
		habits = append(habits, h)
	}
	logger.Debug("Fetched habits", "count", len(habits))
	return habits, true
}

func (g *HTTPGateway) Create(ctx context.Context, habit models.NewHabit) (models.Habit, bool) {
	var wire wireHabit
	if !g.do(ctx, "Create", http.MethodPost, g.collectionURL(), habit, &wire) {
		return models.Habit{}, false
	}
	return g.decoded(wire)
}

func (g *HTTPGateway) Update(ctx context.Context, id string, patch models.HabitPatch) (models.Habit, bool) {
	var wire wireHabit
	if !g.do(ctx, "Update", http.MethodPatch, g.itemURL(id), patch, &wire) {
		return models.Habit{}, false
	}
	return g.decoded(wire)
}

func (g *HTTPGateway) Delete(ctx context.Context, id string) bool {
	return g.do(ctx, "Delete", http.MethodDelete, g.itemURL(id), nil, nil)
}

func (g *HTTPGateway) decoded(wire wireHabit) (models.Habit, bool) {
	h, err := wire.toModel()
	if err != nil {
		logger.Warn("Remote returned an unusable habit", "error", err)
		return models.Habit{}, false
	}
	return h, true
}

// do sends one request inside a span and decodes a 2xx response into out.
// It reports false on any failure after logging it.
func (g *HTTPGateway) do(ctx context.Context, op, method, target string, body, out any) bool {
	ctx, span := g.tracer.Start(ctx, "gateway."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
		),
	)
	defer span.End()

	fail := func(msg string, err error) bool {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		logger.Warn("Remote habit request failed", "op", op, "method", method, "url", target, "error", err)
		return false
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail("encode request", fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail("build request", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fail("send request", fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	logger.Debug("Remote habit response", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail("unexpected status", fmt.Errorf("%s returned %s: %s", op, resp.Status, strings.TrimSpace(string(snippet))))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return true
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail("decode response", fmt.Errorf("decode response: %w", err))
	}
	return true
}
