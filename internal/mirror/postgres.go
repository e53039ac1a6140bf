package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

// Postgres mirrors the state record into a remote database. It sits behind
// the remote-mirror feature flag (off by default) and follows the same
// contract as the file mirror: fire-and-forget, errors swallowed, never on
// the primary write path. Each write carries a short deadline so a slow
// network cannot stall a commit.
type Postgres struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPostgres(ctx context.Context, databaseURL string, log zerolog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect remote mirror: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping remote mirror: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("prepare remote mirror: %w", err)
	}

	return &Postgres{pool: pool, log: log.With().Str("component", "remote-mirror").Logger()}, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

func (p *Postgres) SaveBackup(state domain.AppState) {
	payload, err := json.Marshal(state)
	if err != nil {
		p.log.Debug().Err(err).Msg("remote backup encode failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = p.pool.Exec(ctx, `
		INSERT INTO app_state (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			payload = EXCLUDED.payload,
			updated_at = EXCLUDED.updated_at`,
		store.Key, payload,
	)
	if err != nil {
		p.log.Debug().Err(err).Msg("remote backup write failed")
	}
}

func (p *Postgres) LoadBackup() (*domain.AppState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var payload []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM app_state WHERE key = $1`, store.Key,
	).Scan(&payload)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var state domain.AppState
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("decode remote backup: %w", err)
	}
	return &state, nil
}
