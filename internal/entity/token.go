package entity

import (
	"context"
	"time"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=token.go -destination=../mocks/token.go -package=mocks

// TokenRecord is the single persisted credential row.
type TokenRecord struct {
	RefreshToken      string
	AccessToken       string    // empty when never fetched
	AccessTokenExpiry time.Time // zero when never fetched
	UpdatedAt         time.Time
}

// HasValidAccessToken reports whether the cached access token may be used at now.
func (r TokenRecord) HasValidAccessToken(now time.Time) bool {
	if r.AccessToken == "" || r.AccessTokenExpiry.IsZero() {
		return false
	}

	return r.AccessTokenExpiry.UTC().After(now.UTC())
}

// AccessToken is a freshly exchanged OAuth access token.
type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
}

// TokenSession is a storage handle acquired per operation. Release must be called exactly once.
type TokenSession interface {
	Token(ctx context.Context) (TokenRecord, error)
	SetInitialRefreshToken(ctx context.Context, refreshToken string, updatedAt time.Time) (TokenRecord, error)
	UpdateAccessToken(ctx context.Context, accessToken string, expiry, updatedAt time.Time) error
	Release()
}
