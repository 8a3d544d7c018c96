package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sprinkler-jobs/internal/domain"
	"sprinkler-jobs/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries a per-request uuid to the job service.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response ends up in the error.
const maxErrorBody = 1024

type jobsClient struct {
	baseURL *url.URL
	client  *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewJobsClient returns a JobGateway talking to the job service at baseURL.
// A zero timeout means no client-side timeout.
func NewJobsClient(baseURL string, timeout time.Duration, logger *slog.Logger) (domain.JobGateway, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	return &jobsClient{
		baseURL: u,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "jobs-client"),
		tracer:  otel.Tracer("sprinkler-jobs-client"),
	}, nil
}

func (c *jobsClient) List(ctx context.Context, kind domain.ListKind) ([]domain.Job, error) {
	if _, err := domain.ParseListKind(string(kind)); err != nil {
		return nil, err
	}
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, "/jobs/{list}", []string{"jobs", string(kind)}, nil, &jobs); err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}

func (c *jobsClient) ListAll(ctx context.Context) ([]domain.Job, error) {
	var jobs []domain.Job
	if err := c.do(ctx, http.MethodGet, "/jobs", []string{"jobs"}, nil, &jobs); err != nil {
		return nil, err
	}
	return nonNil(jobs), nil
}

// Submit treats every 2xx as accepted. The job id is read when the body
// carries one; otherwise the receipt is zero.
func (c *jobsClient) Submit(ctx context.Context, job domain.Job) (domain.Receipt, error) {
	var raw []byte
	if err := c.do(ctx, http.MethodPost, "/jobs", []string{"jobs"}, job, &raw); err != nil {
		return domain.Receipt{}, err
	}
	return c.receiptOf(raw), nil
}

func (c *jobsClient) receiptOf(raw []byte) domain.Receipt {
	if len(raw) == 0 {
		return domain.Receipt{}
	}
	var body struct {
		JobID json.Number `json:"job_id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		c.logger.Debug("submit response carries no receipt", "error", err)
		return domain.Receipt{}
	}
	id, err := body.JobID.Int64()
	if err != nil {
		c.logger.Debug("submit response carries no job id", "job_id", body.JobID.String())
		return domain.Receipt{}
	}
	return domain.Receipt{JobID: int(id)}
}

func (c *jobsClient) Remove(ctx context.Context, kind domain.ListKind, sprinklerID string) error {
	if _, err := domain.ParseListKind(string(kind)); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/jobs/{list}/{sprinkler_id}",
		[]string{"jobs", string(kind), sprinklerID}, nil, nil)
}

func (c *jobsClient) ListCourts(ctx context.Context) ([]domain.Court, error) {
	var courts []domain.Court
	if err := c.do(ctx, http.MethodGet, "/courts", []string{"courts"}, nil, &courts); err != nil {
		return nil, err
	}
	if courts == nil {
		courts = []domain.Court{}
	}
	return courts, nil
}

func (c *jobsClient) SetCourtDuration(ctx context.Context, sprinklerID string, duration domain.Duration) error {
	body := struct {
		Duration     domain.Duration `json:"duration"`
		HighPriority bool            `json:"high_priority"`
	}{Duration: duration}
	return c.do(ctx, http.MethodPost, "/courts/{sprinkler_id}", []string{"courts", sprinklerID}, body, nil)
}

// do performs one request. endpoint is the route template used for span
// names and metric labels; segments are escaped into the actual path. A nil
// out discards the body, a *[]byte out receives it undecoded, and an empty
// 2xx body leaves out untouched.
func (c *jobsClient) do(ctx context.Context, method, endpoint string, segments []string, in, out interface{}) error {
	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "client."+method+" "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", endpoint),
			attribute.String("request.id", requestID),
		))
	defer span.End()

	target := c.resolve(segments)
	span.SetAttributes(attribute.String("http.url", target))

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to encode request body")
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create request")
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ClientRequestDuration.WithLabelValues(endpoint, method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(endpoint, method, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.logger.Debug("request failed", "method", method, "url", target, "request_id", requestID, "error", err)
		return fmt.Errorf("%s %s failed: %w", method, target, err)
	}
	defer resp.Body.Close()

	metrics.ClientRequestsTotal.WithLabelValues(endpoint, method, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("request done", "method", method, "url", target, "request_id", requestID, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("%s %s returned %s: %w: %s", method, target, resp.Status,
			domain.ErrUnexpectedStatus, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read response")
		return fmt.Errorf("failed to read response of %s %s: %w", method, target, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if b, ok := out.(*[]byte); ok {
		*b = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode response")
		return fmt.Errorf("failed to decode response of %s %s: %w", method, target, err)
	}
	return nil
}

func (c *jobsClient) resolve(segments []string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := *c.baseURL
	rel := strings.Join(escaped, "/")
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + rel
	u.Path, _ = url.PathUnescape(u.RawPath)
	return u.String()
}

func nonNil(jobs []domain.Job) []domain.Job {
	if jobs == nil {
		return []domain.Job{}
	}
	return jobs
}
