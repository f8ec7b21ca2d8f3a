package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samandr77/microservices/invoice/internal/entity"
	"github.com/samandr77/microservices/invoice/pkg/config"
	"github.com/samandr77/microservices/invoice/pkg/transport"
)

const organizationHeader = "X-com-zoho-invoice-organizationid"

// Client talks to the Zoho accounts (OAuth) and Zoho Invoice APIs.
type Client struct {
	cfg config.Zoho
	c   *http.Client
}

func NewClient(cfg config.Zoho) *Client {
	return &Client{
		cfg: cfg,
		c: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport.NewLoggingRoundTripper(http.DefaultTransport),
		},
	}
}

// apiRequest performs an authenticated call and returns the status code and raw body.
func (c *Client) apiRequest(
	ctx context.Context,
	accessToken, method, path string,
	query url.Values,
	reqBody any,
) (int, []byte, error) {
	reqURL := strings.TrimRight(c.cfg.APIURL, "/") + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var body io.Reader

	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)
	req.Header.Set(organizationHeader, c.cfg.OrganizationID) //nolint:canonicalheader

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: do request: %w", entity.ErrRemote, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %w", entity.ErrRemote, err)
	}

	return resp.StatusCode, respBody, nil
}

func unexpectedStatus(op string, code int, body []byte) error {
	return fmt.Errorf("%w: %s: unexpected status %d: %s", entity.ErrRemote, op, code, body)
}
