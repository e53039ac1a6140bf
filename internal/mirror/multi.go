package mirror

import (
	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

// Multi fans a backup write out to several mirrors (the local file plus,
// when the feature flag is on, the remote database). Reads fall back in
// order.
type Multi []store.Mirror

func (m Multi) SaveBackup(state domain.AppState) {
	for _, mirror := range m {
		mirror.SaveBackup(state)
	}
}

func (m Multi) LoadBackup() (*domain.AppState, error) {
	for _, mirror := range m {
		if state, err := mirror.LoadBackup(); err == nil {
			return state, nil
		}
	}
	return nil, store.ErrNotFound
}
