// Package state owns the committed application state for one session. The
// Container is the only place the state is ever swapped: transitions are
// computed as whole new values by the engine, then committed through the
// durable store, the backup mirror, and the replication bus in that order.
package state

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

type Container struct {
	mu      sync.RWMutex
	current domain.AppState

	store  store.Store
	mirror store.Mirror
	bus    store.Bus
	log    zerolog.Logger
}

// New wires a container to its persistence collaborators and subscribes it
// to foreign broadcasts. An incoming broadcast replaces the in-memory state
// wholesale — no field-by-field merge — and is not re-persisted or
// re-broadcast, so two sessions never ping-pong the same state back and
// forth.
func New(st store.Store, mirror store.Mirror, bus store.Bus, log zerolog.Logger) *Container {
	c := &Container{
		store:  st,
		mirror: mirror,
		bus:    bus,
		log:    log.With().Str("component", "state").Logger(),
	}
	bus.Subscribe(c.replace)
	return c
}

// Load initialises the in-memory state: durable store first, backup mirror
// if the store has nothing usable, seed catalog on a true first run.
func (c *Container) Load(ctx context.Context) error {
	loaded, err := c.store.Load(ctx)
	if err == nil {
		c.mu.Lock()
		c.current = *loaded
		c.mu.Unlock()
		return nil
	}
	if err != store.ErrNotFound {
		c.log.Warn().Err(err).Msg("durable store unusable, trying backup mirror")
	}

	if backup, berr := c.mirror.LoadBackup(); berr == nil {
		c.log.Info().Msg("state restored from backup mirror")
		c.mu.Lock()
		c.current = *backup
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	c.current = domain.Seed()
	c.mu.Unlock()
	return nil
}

// Snapshot returns an independent copy of the committed state.
func (c *Container) Snapshot() domain.AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// Apply runs a pure transition against a snapshot and commits the result.
// The transition either produces a whole new state or an error; a partially
// updated state is never observable. A failed durable save is logged and
// tolerated: the in-memory state stays authoritative for the session and the
// next mutation retries naturally. The mirror write and the broadcast happen
// regardless of the save outcome.
func (c *Container) Apply(ctx context.Context, transition func(domain.AppState) (domain.AppState, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := transition(c.current.Clone())
	if err != nil {
		return err
	}
	c.current = next

	if err := c.store.Save(ctx, next); err != nil {
		c.log.Warn().Err(err).Msg("durable save failed, in-memory state remains authoritative")
	}
	c.mirror.SaveBackup(next)
	c.bus.Publish(ctx, next)
	return nil
}

// Reset clears the durable record and reinstates the seed catalog, so a
// session that loads before the next mutation also starts from seed.
func (c *Container) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	c.current = domain.Seed()
	c.mirror.SaveBackup(c.current)
	c.bus.Publish(ctx, c.current)
	return nil
}

func (c *Container) replace(state domain.AppState) {
	c.mu.Lock()
	c.current = state
	c.mu.Unlock()
}
