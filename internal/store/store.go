package store

import (
	"context"
	"errors"

	"kasirpos/internal/domain"
)

// ErrNotFound reports that no state record exists yet (first run, or after a
// reset). It is distinct from loading a present-but-empty state.
var ErrNotFound = errors.New("state record not found")

// Key is the single logical key under which the whole AppState record lives,
// in both the durable store and the backup mirror.
const Key = "kasir_state"

// Store is the durable source of truth across restarts. Save fully replaces
// the stored record and must be safe to call rapidly after every mutation.
type Store interface {
	Load(ctx context.Context) (*domain.AppState, error)
	Save(ctx context.Context, state domain.AppState) error
	Clear(ctx context.Context) error
	Close() error
}

// Mirror is a best-effort secondary copy of the same record. SaveBackup never
// reports failure to its caller; a broken mirror must not block the primary
// write path. LoadBackup is consulted only when the durable store has nothing
// usable at startup.
type Mirror interface {
	SaveBackup(state domain.AppState)
	LoadBackup() (*domain.AppState, error)
}

// Bus broadcasts the full committed state to every other session on the same
// device and delivers foreign broadcasts to the subscribed handler. Delivery
// is at-most-once and unordered; the last broadcast received wins. A
// publisher never hears its own broadcast.
type Bus interface {
	Publish(ctx context.Context, state domain.AppState)
	Subscribe(fn func(domain.AppState))
	Close() error
}

// NopMirror is used when no backup location is configured.
type NopMirror struct{}

func (NopMirror) SaveBackup(domain.AppState) {}

func (NopMirror) LoadBackup() (*domain.AppState, error) { return nil, ErrNotFound }

// NopBus degrades the system to single-session operation when no replication
// channel is available. Correctness within the session is unaffected.
type NopBus struct{}

func (NopBus) Publish(context.Context, domain.AppState) {}

func (NopBus) Subscribe(func(domain.AppState)) {}

func (NopBus) Close() error { return nil }
