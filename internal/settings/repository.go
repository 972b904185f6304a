package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository stores the single settings document.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// PostgresRepository keeps settings in a one-row table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed settings repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get loads the settings row, or ErrNotConfigured when absent.
func (r *PostgresRepository) Get(ctx context.Context) (Settings, error) {
	var (
		s         Settings
		hours     []byte
		social    []byte
		updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, `SELECT name, tagline, email, phone, address, hours, social, currency, updated_at
        FROM site_settings WHERE id = 1`).Scan(&s.Name, &s.Tagline, &s.Email, &s.Phone, &s.Address, &hours, &social, &s.Currency, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrNotConfigured
	}
	if err != nil {
		return Settings{}, fmt.Errorf("query settings: %w", err)
	}
	if err := json.Unmarshal(hours, &s.Hours); err != nil {
		return Settings{}, fmt.Errorf("decode hours: %w", err)
	}
	if err := json.Unmarshal(social, &s.Social); err != nil {
		return Settings{}, fmt.Errorf("decode social links: %w", err)
	}
	s.UpdatedAt = updatedAt.UTC()
	return s, nil
}

// Save upserts the settings row.
func (r *PostgresRepository) Save(ctx context.Context, s Settings) error {
	hours, err := json.Marshal(s.Hours)
	if err != nil {
		return fmt.Errorf("encode hours: %w", err)
	}
	social, err := json.Marshal(s.Social)
	if err != nil {
		return fmt.Errorf("encode social links: %w", err)
	}
	_, err = r.db.Exec(ctx, `INSERT INTO site_settings (id, name, tagline, email, phone, address, hours, social, currency, updated_at)
        VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, tagline = EXCLUDED.tagline, email = EXCLUDED.email,
            phone = EXCLUDED.phone, address = EXCLUDED.address, hours = EXCLUDED.hours, social = EXCLUDED.social,
            currency = EXCLUDED.currency, updated_at = EXCLUDED.updated_at`,
		s.Name, s.Tagline, s.Email, s.Phone, s.Address, hours, social, s.Currency, s.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

type memoryRepository struct {
	mu       sync.RWMutex
	settings *Settings
}

// NewMemoryRepository builds an in-memory settings store for tests and local development.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Get(context.Context) (Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.settings == nil {
		return Settings{}, ErrNotConfigured
	}
	return clone(*r.settings), nil
}

func (r *memoryRepository) Save(_ context.Context, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := clone(s)
	r.settings = &c
	return nil
}

func clone(s Settings) Settings {
	hours := make([]OpeningHours, len(s.Hours))
	copy(hours, s.Hours)
	s.Hours = hours
	social := make(map[string]string, len(s.Social))
	for k, v := range s.Social {
		social[k] = v
	}
	s.Social = social
	return s
}
