package repository

const tokensTable = "zoho_tokens"

var tokenColumns = []string{
	"refresh_token",
	"access_token",
	"access_token_expiry",
	"updated_at",
}

const returningTokenColumns = `refresh_token, access_token, access_token_expiry, updated_at`

const upsertRefreshTokenSuffix = `
ON CONFLICT (id) DO UPDATE
SET refresh_token = EXCLUDED.refresh_token,
    updated_at    = EXCLUDED.updated_at`
