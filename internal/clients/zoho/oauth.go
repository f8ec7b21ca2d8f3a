package zoho

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

const tokenPath = "/oauth/v2/token"

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
	APIDomain    string `json:"api_domain"`
	TokenType    string `json:"token_type"`
	Error        string `json:"error"`
}

// RefreshAccessToken exchanges the refresh token for a new access token.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (entity.AccessToken, error) {
	form := make(url.Values)
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")

	respData, err := c.tokenRequest(ctx, form)
	if err != nil {
		return entity.AccessToken{}, err
	}

	if respData.AccessToken == "" {
		return entity.AccessToken{}, fmt.Errorf("%w: token response without access_token: %s", entity.ErrAuth, respData.Error)
	}

	return entity.AccessToken{
		Token:     respData.AccessToken,
		ExpiresIn: time.Duration(respData.ExpiresIn) * time.Second,
	}, nil
}

// AuthorizationURL is the consent page an operator opens to obtain an authorization code.
func (c *Client) AuthorizationURL() string {
	q := make(url.Values)
	q.Set("scope", c.cfg.Scope)
	q.Set("client_id", c.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.cfg.RedirectURI)
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")

	return strings.TrimRight(c.cfg.AccountsURL, "/") + "/oauth/v2/auth?" + q.Encode()
}

// ExchangeAuthorizationCode trades a one-time authorization code for a long-lived refresh token.
func (c *Client) ExchangeAuthorizationCode(ctx context.Context, code string) (string, error) {
	form := make(url.Values)
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("grant_type", "authorization_code")

	respData, err := c.tokenRequest(ctx, form)
	if err != nil {
		return "", err
	}

	if respData.RefreshToken == "" {
		return "", fmt.Errorf("%w: token response without refresh_token: %s", entity.ErrAuth, respData.Error)
	}

	return respData.RefreshToken, nil
}

func (c *Client) tokenRequest(ctx context.Context, form url.Values) (tokenResponse, error) {
	reqURL := strings.TrimRight(c.cfg.AccountsURL, "/") + tokenPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return tokenResponse{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.c.Do(req)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("%w: do request: %w", entity.ErrAuth, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("%w: read response: %w", entity.ErrAuth, err)
	}

	if resp.StatusCode != http.StatusOK {
		return tokenResponse{}, fmt.Errorf("%w: bad response status %d: %s", entity.ErrAuth, resp.StatusCode, body)
	}

	var respData tokenResponse

	err = json.Unmarshal(body, &respData)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("%w: unmarshal response: %w", entity.ErrAuth, err)
	}

	return respData, nil
}
