package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/microservices/invoice/internal/entity"
)

// TokenID is the fixed primary key of the single credential row.
const TokenID = "zoho_refresh_token"

type Repository struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Acquire takes a connection from the pool for the lifetime of one token operation.
func (r *Repository) Acquire(ctx context.Context) (entity.TokenSession, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	return &Session{conn: conn}, nil
}

// Session is a token store handle bound to one pooled connection.
type Session struct {
	conn *pgxpool.Conn
}

func (s *Session) Release() {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}
}

func (s *Session) Token(ctx context.Context) (entity.TokenRecord, error) {
	query, args, err := sq.Select(tokenColumns...).
		From(tokensTable).
		Where(sq.Eq{"id": TokenID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return entity.TokenRecord{}, fmt.Errorf("build query: %w", err)
	}

	var rec entity.TokenRecord

	err = s.conn.QueryRow(ctx, query, args...).Scan(
		&rec.RefreshToken,
		(*zeronull.Text)(&rec.AccessToken),
		(*zeronull.Timestamptz)(&rec.AccessTokenExpiry),
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.TokenRecord{}, entity.ErrNotInitialized
		}

		return entity.TokenRecord{}, fmt.Errorf("query row: %w", err)
	}

	return rec, nil
}

// SetInitialRefreshToken creates the record or replaces its refresh token, keeping the cached access token.
func (s *Session) SetInitialRefreshToken(ctx context.Context, refreshToken string, updatedAt time.Time) (entity.TokenRecord, error) {
	if refreshToken == "" {
		return entity.TokenRecord{}, fmt.Errorf("%w: empty refresh token", entity.ErrInvalidArgument)
	}

	query, args, err := sq.Insert(tokensTable).
		Columns("id", "refresh_token", "updated_at").
		Values(TokenID, refreshToken, updatedAt).
		Suffix(upsertRefreshTokenSuffix).
		Suffix("RETURNING " + returningTokenColumns).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return entity.TokenRecord{}, fmt.Errorf("build query: %w", err)
	}

	var rec entity.TokenRecord

	err = s.conn.QueryRow(ctx, query, args...).Scan(
		&rec.RefreshToken,
		(*zeronull.Text)(&rec.AccessToken),
		(*zeronull.Timestamptz)(&rec.AccessTokenExpiry),
		&rec.UpdatedAt,
	)
	if err != nil {
		return entity.TokenRecord{}, fmt.Errorf("upsert token: %w", err)
	}

	return rec, nil
}

func (s *Session) UpdateAccessToken(ctx context.Context, accessToken string, expiry, updatedAt time.Time) error {
	query, args, err := sq.Update(tokensTable).
		Set("access_token", zeronull.Text(accessToken)).
		Set("access_token_expiry", zeronull.Timestamptz(expiry)).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": TokenID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	tag, err := s.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return entity.ErrNotInitialized
	}

	return nil
}
