package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/samandr77/microservices/invoice/pkg/logger"
)

// LoggingRoundTripper propagates the request id and logs every outgoing call.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
}

func NewLoggingRoundTripper(transport http.RoundTripper) *LoggingRoundTripper {
	return &LoggingRoundTripper{Transport: transport}
}

func (t *LoggingRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	reqID := logger.RequestIDFromCtx(ctx)
	if reqID != "" {
		r.Header.Set("X-Request-Id", reqID)
	}

	target := fmt.Sprintf("%s %s", r.Method, redacted(r))

	slog.InfoContext(ctx, "outgoing request", "request", target)

	start := time.Now()

	resp, err := t.Transport.RoundTrip(r)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}

	slog.InfoContext(ctx, "incoming response",
		"response", target,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	return resp, nil
}

// redacted hides credentials passed in the query string.
func redacted(r *http.Request) string {
	u := *r.URL

	q := u.Query()
	for _, k := range []string{"client_secret", "refresh_token", "code"} {
		if q.Has(k) {
			q.Set(k, "xxxxx")
		}
	}

	u.RawQuery = q.Encode()

	return u.Redacted()
}
