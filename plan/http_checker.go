package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 10 * time.Second
	checkPlanPath  = "/plan/check-plan/"
	maxBodyBytes   = 1 << 20
)

var _ Checker = (*HTTPChecker)(nil)

// HTTPChecker queries GET {baseURL}/plan/check-plan/{phone}.
type HTTPChecker struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tracer     trace.Tracer
}

type Option func(*HTTPChecker)

// WithTimeout bounds each check. Non-positive values keep the default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPChecker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPChecker) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *HTTPChecker) {
		c.tracer = tracer
	}
}

func NewHTTPChecker(baseURL string, options ...Option) *HTTPChecker {
	c := &HTTPChecker{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("go-auth-client/plan")
	}
	return c
}

// CheckPlan fails open: any error from Fetch yields FailedOpenStatus.
func (c *HTTPChecker) CheckPlan(ctx context.Context, phoneNumber string) Status {
	if phoneNumber == "" {
		return DefaultStatus()
	}
	status, err := c.Fetch(ctx, phoneNumber)
	if err != nil {
		log.Warn().Err(err).Msg("plan check failed, allowing access")
		return FailedOpenStatus()
	}
	return *status
}

// Fetch performs a single request without retries and returns the decoded status.
func (c *HTTPChecker) Fetch(ctx context.Context, phoneNumber string) (*Status, error) {
	if phoneNumber == "" {
		return nil, errors.Wrapf(ErrPlanCheck, "empty phone number")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "plan.check", trace.WithSpanKind(trace.SpanKindClient))
	status, err := c.fetch(ctx, phoneNumber)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Bool("plan.active", status.Active))
	}
	span.End()
	return status, err
}

func (c *HTTPChecker) fetch(ctx context.Context, phoneNumber string) (*Status, error) {
	endpoint := c.baseURL + checkPlanPath + url.PathEscape(phoneNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrPlanCheck, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanCheck, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrPlanCheck, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Wrapf(ErrPlanCheck, "unexpected status %d", resp.StatusCode)
	}

	var payload struct {
		Active  *bool   `json:"active"`
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrPlanCheck, err)
	}
	if payload.Active == nil {
		return nil, errors.Wrapf(ErrPlanCheck, "response has no active field")
	}

	status := &Status{Active: *payload.Active}
	if payload.Message != nil {
		status.Message = *payload.Message
	}
	return status, nil
}
