package adminapi

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
	"github.com/ericfisherdev/dongdong-admin/internal/metrics"
)

// CredentialSource is re-exported for callers configuring Options.
type CredentialSource = driven.CredentialSource

// WithCredentials returns a context whose requests are authenticated from src.
func WithCredentials(ctx context.Context, src CredentialSource) context.Context {
	return driven.WithCredentials(ctx, src)
}

// authTransport attaches the bearer credential to each request. The source
// is consulted per request, so a credential written mid-session is picked up
// by the very next call.
type authTransport struct {
	base     http.RoundTripper
	fallback CredentialSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	src, ok := driven.CredentialsFrom(req.Context())
	if !ok {
		src = t.fallback
	}
	if src == nil {
		return t.base.RoundTrip(req)
	}

	credential, ok := src.Read(req.Context())
	if !ok {
		return t.base.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	authed := req.Clone(req.Context())
	(&oauth2.Token{AccessToken: credential, TokenType: "Bearer"}).SetAuthHeader(authed)
	return t.base.RoundTrip(authed)
}

const (
	// maxThrottleRetries is the number of replays after the first attempt.
	maxThrottleRetries = 2
	// maxRetryAfter is the longest server-requested wait that is honoured.
	maxRetryAfter = 10 * time.Second
)

// newRetryTransport replays requests the backend throttled (429) or shed
// (503) when the response says how long to wait. Anything else, including
// a throttle without a usable Retry-After, is returned to the caller as-is.
func newRetryTransport(next http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: next}
	rc.RetryMax = maxThrottleRetries
	rc.CheckRetry = retryThrottled
	rc.Backoff = retryAfterBackoff
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger
	return &retryablehttp.RoundTripper{Client: rc}
}

func retryThrottled(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err != nil || resp == nil || ctx.Err() != nil {
		return false, nil
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return false, nil
	}
	_, ok := retryAfter(resp, time.Now())
	return ok, nil
}

func retryAfterBackoff(lo, hi time.Duration, attempt int, resp *http.Response) time.Duration {
	if wait, ok := retryAfter(resp, time.Now()); ok {
		return wait
	}
	return retryablehttp.DefaultBackoff(lo, hi, attempt, resp)
}

// retryAfter reads Retry-After as delta-seconds or an HTTP date.
// Negative, malformed and over-long values report false.
func retryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}

	var wait time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		wait = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(v); err == nil {
		wait = max(at.Sub(now), 0)
	} else {
		return 0, false
	}

	if wait > maxRetryAfter {
		return 0, false
	}
	return wait, true
}

// metricsTransport records one observation per attempt that reaches the wire.
type metricsTransport struct {
	base http.RoundTripper
}

func (t *metricsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.GatewayRequestsTotal.WithLabelValues(req.Method, metrics.StatusLabel(status)).Inc()
	metrics.GatewayRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	return resp, err
}
