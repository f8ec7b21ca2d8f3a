package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

// Tokens hands out a valid access token, refreshing it through OAuth when the cached one has expired.
type Tokens struct {
	store TokenStore
	oauth OAuthClient
	now   func() time.Time
}

func NewTokens(store TokenStore, oauth OAuthClient) *Tokens {
	return &Tokens{
		store: store,
		oauth: oauth,
		now:   time.Now,
	}
}

// WithClock replaces the time source.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

func (t *Tokens) AccessToken(ctx context.Context) (string, error) {
	sess, err := t.store.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("acquire token store: %w", err)
	}
	defer sess.Release()

	rec, err := sess.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}

	if rec.HasValidAccessToken(t.now()) {
		return rec.AccessToken, nil
	}

	tok, err := t.oauth.RefreshAccessToken(ctx, rec.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh access token: %w", err)
	}

	now := t.now()
	expiry := now.Add(tok.ExpiresIn).UTC()

	err = sess.UpdateAccessToken(ctx, tok.Token, expiry, now)
	if err != nil {
		return "", fmt.Errorf("update access token: %w", err)
	}

	slog.InfoContext(ctx, "access token refreshed", "expires_at", expiry)

	return tok.Token, nil
}

// Bootstrap seeds an empty store with refreshToken. An already initialized store is left untouched.
func (t *Tokens) Bootstrap(ctx context.Context, refreshToken string) error {
	sess, err := t.store.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire token store: %w", err)
	}
	defer sess.Release()

	_, err = sess.Token(ctx)
	if err == nil {
		return nil
	}

	if !errors.Is(err, entity.ErrNotInitialized) {
		return fmt.Errorf("get token: %w", err)
	}

	if refreshToken == "" {
		slog.WarnContext(ctx, "token store is empty and no refresh token configured; run gettoken")
		return nil
	}

	_, err = sess.SetInitialRefreshToken(ctx, refreshToken, t.now())
	if err != nil {
		return fmt.Errorf("set initial refresh token: %w", err)
	}

	slog.InfoContext(ctx, "token store initialized from configuration")

	return nil
}

// SetRefreshToken stores a new refresh token, creating the record if needed.
func (t *Tokens) SetRefreshToken(ctx context.Context, refreshToken string) error {
	sess, err := t.store.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire token store: %w", err)
	}
	defer sess.Release()

	_, err = sess.SetInitialRefreshToken(ctx, refreshToken, t.now())
	if err != nil {
		return fmt.Errorf("set initial refresh token: %w", err)
	}

	return nil
}
