package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vikramvicky-1/ttdashboard-sub000/internal/domain"
)

const (
	customCardColumns   = `id::text, user_id, name, entries, created_at, updated_at`
	customInHandColumns = `id::text, user_id, entries, created_at, updated_at`
)

// CustomCardRepository implements domain.CustomCardRepository using PostgreSQL
type CustomCardRepository struct {
	pool *pgxpool.Pool
}

// NewCustomCardRepository creates a new CustomCardRepository
func NewCustomCardRepository(pool *pgxpool.Pool) *CustomCardRepository {
	return &CustomCardRepository{pool: pool}
}

func scanCustomCard(row rowScanner) (*domain.CustomCard, error) {
	var (
		c   domain.CustomCard
		raw []byte
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &raw, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	c.Entries = []domain.CardEntry{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c.Entries); err != nil {
			return nil, fmt.Errorf("decode card entries: %w", err)
		}
	}
	return &c, nil
}

func encodeEntries[T any](entries []T) ([]byte, error) {
	if entries == nil {
		entries = []T{}
	}
	return json.Marshal(entries)
}

// Create inserts a card
func (r *CustomCardRepository) Create(ctx context.Context, card *domain.CustomCard) (*domain.CustomCard, error) {
	entries, err := encodeEntries(card.Entries)
	if err != nil {
		return nil, err
	}
	return scanCustomCard(r.pool.QueryRow(ctx, `
		INSERT INTO custom_cards (user_id, name, entries)
		VALUES ($1, $2, $3::jsonb)
		RETURNING `+customCardColumns,
		card.UserID, card.Name, string(entries),
	))
}

// GetByID retrieves a card owned by userID
func (r *CustomCardRepository) GetByID(ctx context.Context, userID, id string) (*domain.CustomCard, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return scanCustomCard(r.pool.QueryRow(ctx,
		`SELECT `+customCardColumns+` FROM custom_cards WHERE id = $1 AND user_id = $2`,
		uid, userID,
	))
}

// ListByUser returns the cards of userID in creation order
func (r *CustomCardRepository) ListByUser(ctx context.Context, userID string) ([]*domain.CustomCard, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+customCardColumns+` FROM custom_cards WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]*domain.CustomCard, 0)
	for rows.Next() {
		c, err := scanCustomCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Update replaces the name and entries of a card owned by card.UserID
func (r *CustomCardRepository) Update(ctx context.Context, card *domain.CustomCard) (*domain.CustomCard, error) {
	uid, err := parseID(card.ID)
	if err != nil {
		return nil, err
	}
	entries, err := encodeEntries(card.Entries)
	if err != nil {
		return nil, err
	}
	return scanCustomCard(r.pool.QueryRow(ctx, `
		UPDATE custom_cards
		SET name = $3, entries = $4::jsonb, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+customCardColumns,
		uid, card.UserID, card.Name, string(entries),
	))
}

// Delete removes a card owned by userID
func (r *CustomCardRepository) Delete(ctx context.Context, userID, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return execAffecting(ctx, r.pool, `DELETE FROM custom_cards WHERE id = $1 AND user_id = $2`, uid, userID)
}

// CustomInHandRepository implements domain.CustomInHandRepository using PostgreSQL
type CustomInHandRepository struct {
	pool *pgxpool.Pool
}

// NewCustomInHandRepository creates a new CustomInHandRepository
func NewCustomInHandRepository(pool *pgxpool.Pool) *CustomInHandRepository {
	return &CustomInHandRepository{pool: pool}
}

func scanCustomInHand(row rowScanner) (*domain.CustomInHand, error) {
	var (
		h   domain.CustomInHand
		raw []byte
	)
	if err := row.Scan(&h.ID, &h.UserID, &raw, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	h.Entries = []domain.InHandEntry{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &h.Entries); err != nil {
			return nil, fmt.Errorf("decode in-hand entries: %w", err)
		}
	}
	return &h, nil
}

// GetByUser returns the in-hand formula of userID
func (r *CustomInHandRepository) GetByUser(ctx context.Context, userID string) (*domain.CustomInHand, error) {
	return scanCustomInHand(r.pool.QueryRow(ctx,
		`SELECT `+customInHandColumns+` FROM custom_in_hand WHERE user_id = $1`,
		userID,
	))
}

// Upsert creates or replaces the in-hand formula of inHand.UserID
func (r *CustomInHandRepository) Upsert(ctx context.Context, inHand *domain.CustomInHand) (*domain.CustomInHand, error) {
	entries, err := encodeEntries(inHand.Entries)
	if err != nil {
		return nil, err
	}
	return scanCustomInHand(r.pool.QueryRow(ctx, `
		INSERT INTO custom_in_hand (user_id, entries)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET entries = EXCLUDED.entries, updated_at = NOW()
		RETURNING `+customInHandColumns,
		inHand.UserID, string(entries),
	))
}
