// Package client talks to the projects REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aaronch12Ch/portafolio-sp/config"
	"github.com/aaronch12Ch/portafolio-sp/errs"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	retryWaitMin     = 100 * time.Millisecond
	retryWaitMax     = 2 * time.Second
	maxResponseBytes = 4 << 20
)

// Status codes worth another attempt on idempotent reads.
var transientStatusCodes = []int{
	http.StatusTooManyRequests,
	http.StatusInternalServerError,
	http.StatusBadGateway,
	http.StatusServiceUnavailable,
	http.StatusGatewayTimeout,
}

type Client struct {
	baseURL        string
	reads          *retryablehttp.Client
	writes         *retryablehttp.Client
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	listings       *listingCache
	logger         zerolog.Logger
}

func New(settings config.Settings) *Client {
	logger := log.With().Str("component", "client").Logger()

	reads := newRetryableClient(logger)
	reads.RetryMax = settings.RetryMax
	reads.CheckRetry = readRetryPolicy

	// Writes are never replayed: a create that timed out may still have been stored.
	writes := newRetryableClient(logger)
	writes.RetryMax = 0
	writes.CheckRetry = func(ctx context.Context, _ *http.Response, _ error) (bool, error) {
		return false, ctx.Err()
	}

	requestTimeout := settings.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	uploadTimeout := settings.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 30 * time.Second
	}

	return &Client{
		baseURL:        strings.TrimRight(settings.APIBaseURL, "/"),
		reads:          reads,
		writes:         writes,
		requestTimeout: requestTimeout,
		uploadTimeout:  uploadTimeout,
		listings:       newListingCache(),
		logger:         logger,
	}
}

func newRetryableClient(logger zerolog.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = leveledLogger{logger: logger}
	c.RetryWaitMin = retryWaitMin
	c.RetryWaitMax = retryWaitMax
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

func readRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	return slices.Contains(transientStatusCodes, resp.StatusCode), nil
}

// call describes one backend request.
type call struct {
	operation   string
	method      string
	path        string
	token       string
	body        []byte
	contentType string
	form        *formBody
	upload      bool
	idempotent  bool
}

func (c *Client) send(ctx context.Context, cl call, out any) error {
	timeout := c.requestTimeout
	if cl.upload {
		timeout = c.uploadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body any
	contentType := cl.contentType
	switch {
	case cl.form != nil:
		body = retryablehttp.ReaderFunc(cl.form.reader)
		contentType = cl.form.contentType
	case cl.body != nil:
		body = cl.body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return errs.NewInternalErrorWithCause("building backend request", err)
	}
	if cl.form != nil {
		req.ContentLength = cl.form.size()
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	logger := c.logger.With().
		Str("request_id", requestID).
		Str("method", cl.method).
		Str("path", cl.path).
		Logger()

	httpClient := c.writes
	if cl.idempotent {
		httpClient = c.reads
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("backend unreachable")
		return errs.NewTransportError(cl.operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.Warn().Err(err).Msg("error reading backend response")
		return errs.NewTransportError(cl.operation, err)
	}

	event := logger.Debug()
	if resp.StatusCode >= http.StatusBadRequest {
		event = logger.Warn()
	}
	event.Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewRemoteStatusError(cl.operation, resp.StatusCode, string(data))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.NewBadResponseError(cl.operation, err)
	}
	return nil
}

// leveledLogger routes go-retryablehttp logs to zerolog.
type leveledLogger struct {
	logger zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}
