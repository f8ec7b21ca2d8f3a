package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/invoice/internal/entity"
	"github.com/samandr77/microservices/invoice/internal/mocks"
	"github.com/samandr77/microservices/invoice/internal/service"
)

type tokenMocks struct {
	store *mocks.MockTokenStore
	sess  *mocks.MockTokenSession
	oauth *mocks.MockOAuthClient
}

func newTokens(t *testing.T, now time.Time) (*service.Tokens, tokenMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := tokenMocks{
		store: mocks.NewMockTokenStore(ctrl),
		sess:  mocks.NewMockTokenSession(ctrl),
		oauth: mocks.NewMockOAuthClient(ctrl),
	}

	tokens := service.NewTokens(m.store, m.oauth).WithClock(func() time.Time { return now })

	return tokens, m
}

func (m tokenMocks) expectSession() {
	m.store.EXPECT().Acquire(gomock.Any()).Return(m.sess, nil)
	m.sess.EXPECT().Release()
}

func TestTokens_AccessToken_Cached(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens, m := newTokens(t, now)

	m.expectSession()
	m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{
		RefreshToken:      "R",
		AccessToken:       "A1",
		AccessTokenExpiry: now.Add(10 * time.Minute),
	}, nil)

	token, err := tokens.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A1", token)
}

func TestTokens_AccessToken_CachedOtherTimezone(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens, m := newTokens(t, now)

	// 14:05 at UTC+2 is 12:05 UTC.
	zone := time.FixedZone("UTC+2", 2*60*60)

	m.expectSession()
	m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{
		RefreshToken:      "R",
		AccessToken:       "A1",
		AccessTokenExpiry: time.Date(2025, 1, 1, 14, 5, 0, 0, zone),
	}, nil)

	token, err := tokens.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A1", token)
}

func TestTokens_AccessToken_Refresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  entity.TokenRecord
	}{
		{
			name: "expired",
			rec: entity.TokenRecord{
				RefreshToken:      "R",
				AccessToken:       "A0",
				AccessTokenExpiry: now.Add(-time.Minute),
			},
		},
		{
			name: "expires exactly now",
			rec: entity.TokenRecord{
				RefreshToken:      "R",
				AccessToken:       "A0",
				AccessTokenExpiry: now,
			},
		},
		{
			name: "never fetched",
			rec:  entity.TokenRecord{RefreshToken: "R"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tokens, m := newTokens(t, now)

			m.expectSession()
			m.sess.EXPECT().Token(gomock.Any()).Return(tt.rec, nil)
			m.oauth.EXPECT().RefreshAccessToken(gomock.Any(), "R").
				Return(entity.AccessToken{Token: "A2", ExpiresIn: time.Hour}, nil)
			m.sess.EXPECT().UpdateAccessToken(gomock.Any(), "A2", now.Add(time.Hour), now).Return(nil)

			token, err := tokens.AccessToken(context.Background())
			require.NoError(t, err)
			require.Equal(t, "A2", token)
		})
	}
}

func TestTokens_AccessToken_NotInitialized(t *testing.T) {
	t.Parallel()

	tokens, m := newTokens(t, time.Now())

	m.expectSession()
	m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{}, entity.ErrNotInitialized)

	_, err := tokens.AccessToken(context.Background())
	require.ErrorIs(t, err, entity.ErrNotInitialized)
}

func TestTokens_AccessToken_AuthError(t *testing.T) {
	t.Parallel()

	tokens, m := newTokens(t, time.Now())

	m.expectSession()
	m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{RefreshToken: "R"}, nil)
	m.oauth.EXPECT().RefreshAccessToken(gomock.Any(), "R").
		Return(entity.AccessToken{}, errors.Join(entity.ErrAuth, errors.New("invalid_code")))

	_, err := tokens.AccessToken(context.Background())
	require.ErrorIs(t, err, entity.ErrAuth)
}

func TestTokens_AccessToken_AcquireError(t *testing.T) {
	t.Parallel()

	tokens, m := newTokens(t, time.Now())

	m.store.EXPECT().Acquire(gomock.Any()).Return(nil, errors.New("pool closed"))

	_, err := tokens.AccessToken(context.Background())
	require.ErrorContains(t, err, "pool closed")
}

func TestTokens_Bootstrap(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("seeds empty store", func(t *testing.T) {
		t.Parallel()

		tokens, m := newTokens(t, now)

		m.expectSession()
		m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{}, entity.ErrNotInitialized)
		m.sess.EXPECT().SetInitialRefreshToken(gomock.Any(), "R", now).Return(entity.TokenRecord{RefreshToken: "R"}, nil)

		require.NoError(t, tokens.Bootstrap(context.Background(), "R"))
	})

	t.Run("keeps initialized store", func(t *testing.T) {
		t.Parallel()

		tokens, m := newTokens(t, now)

		m.expectSession()
		m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{RefreshToken: "OLD"}, nil)

		require.NoError(t, tokens.Bootstrap(context.Background(), "R"))
	})

	t.Run("empty store without configured token", func(t *testing.T) {
		t.Parallel()

		tokens, m := newTokens(t, now)

		m.expectSession()
		m.sess.EXPECT().Token(gomock.Any()).Return(entity.TokenRecord{}, entity.ErrNotInitialized)

		require.NoError(t, tokens.Bootstrap(context.Background(), ""))
	})
}

func TestTokens_SetRefreshToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokens, m := newTokens(t, now)

	m.expectSession()
	m.sess.EXPECT().SetInitialRefreshToken(gomock.Any(), "R2", now).Return(entity.TokenRecord{RefreshToken: "R2"}, nil)

	require.NoError(t, tokens.SetRefreshToken(context.Background(), "R2"))
}
