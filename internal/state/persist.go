package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/domain/entity"
	"github.com/coffeekz/appstate/pkg/debounce"
	"github.com/coffeekz/appstate/pkg/kvstore"
)

const themeModeKey = "theme.mode"

// saveQuiet batches rapid mutations into one storage write.
const saveQuiet = 200 * time.Millisecond

// PersistedShape is everything that survives a restart. The whitelist
// {auth, theme} and the blacklist {profile} are facts of this type: a field
// that is not here cannot be persisted. Cities, categories, payment methods
// and the cart are runtime-only.
type PersistedShape struct {
	Auth  AuthShape
	Theme ThemeShape
}

// AuthShape is the persisted session pair. Both fields must be present for a
// restored session to count as authenticated.
type AuthShape struct {
	Token    string
	UserJSON string
}

// ThemeShape is the persisted theme preference.
type ThemeShape struct {
	Mode string
}

// Persistor moves state across the serialization boundary in both
// directions.
type Persistor struct {
	store  *Store
	kv     kvstore.Store
	logger *logrus.Logger
	deb    *debounce.Debouncer
}

// NewPersistor builds the persistor over a storage adapter.
func NewPersistor(store *Store, kv kvstore.Store, logger *logrus.Logger) *Persistor {
	return &Persistor{
		store:  store,
		kv:     kv,
		logger: logger,
		deb:    debounce.NewDebouncer(saveQuiet),
	}
}

// Serialize projects the current in-memory state onto the persisted shape.
func (p *Persistor) Serialize() PersistedShape {
	var shape PersistedShape
	st := p.store.Auth.State()
	if st.Authenticated && st.User != nil {
		if b, err := json.Marshal(st.User); err == nil {
			shape.Auth = AuthShape{Token: st.Token, UserJSON: string(b)}
		}
	}
	shape.Theme = ThemeShape{Mode: string(p.store.Theme.State().Mode)}
	return shape
}

// Save writes the persisted shape. The session pair is delegated to the auth
// slice, which owns those keys; the theme preference is written here.
func (p *Persistor) Save(ctx context.Context) error {
	if err := p.store.Auth.PersistSession(ctx); err != nil {
		return err
	}
	return p.kv.Set(ctx, themeModeKey, string(p.store.Theme.State().Mode))
}

// Hydrate restores persisted state and marks the store hydrated. It blocks
// until done; the app subtree stays behind the gate meanwhile. A theme value
// that fails validation is ignored; a corrupt session record fails the
// hydration (no schema or version check exists, an accepted risk).
func (p *Persistor) Hydrate(ctx context.Context) error {
	mode, ok, err := p.kv.Get(ctx, themeModeKey)
	if err != nil {
		return err
	}
	if ok && entity.ValidThemeMode(mode) {
		p.store.Theme.SetMode(entity.ThemeMode(mode))
	}

	if err := p.store.Auth.LoadUserData(ctx); err != nil {
		return err
	}

	p.store.hydrated.Store(true)
	if p.logger != nil {
		p.logger.WithFields(logrus.Fields{
			"authenticated": p.store.Auth.State().Authenticated,
			"theme":         p.store.Theme.State().Mode,
		}).Info("state hydrated")
	}
	return nil
}

// Watch re-saves on every state change, debounced. Returns a stop function
// that also flushes one final save.
func (p *Persistor) Watch() func() {
	unsubscribe := p.store.Subscribe(func() {
		p.deb.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := p.Save(ctx); err != nil && p.logger != nil {
				p.logger.WithError(err).Warn("persist save failed")
			}
		})
	})
	return func() {
		unsubscribe()
		p.deb.Flush(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := p.Save(ctx); err != nil && p.logger != nil {
				p.logger.WithError(err).Warn("persist final save failed")
			}
		})
	}
}
