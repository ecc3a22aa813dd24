package state

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SystemThemeSource is the OS dark-mode signal.
type SystemThemeSource interface {
	// Current reports the present OS dark-mode flag.
	Current() bool
	// Subscribe registers fn for future changes and returns an unsubscribe
	// function.
	Subscribe(fn func(dark bool)) func()
}

// Bootstrap runs the fixed startup sequence: hydrate persisted state, load
// the profile when a session was restored, wire the OS theme signal, then
// fetch categories and cities. Profile load never races ahead of hydration;
// it is only dispatched after Hydrate returns. The returned function
// unsubscribes from the theme signal.
func (s *Store) Bootstrap(ctx context.Context, src SystemThemeSource) (func(), error) {
	if err := s.persist.Hydrate(ctx); err != nil {
		return nil, err
	}

	if s.Auth.State().Authenticated {
		if err := s.Profile.Load(ctx); err != nil && s.logger != nil {
			// the session may have expired server-side; the error already
			// sits in the profile slice for the UI to surface
			s.logger.WithError(err).Warn("profile load at startup failed")
		}
	}

	var unsubscribe func()
	if src != nil {
		unsubscribe = src.Subscribe(s.Theme.UpdateSystemDark)
		s.Theme.UpdateSystemDark(src.Current())
	} else {
		unsubscribe = func() {}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.General.LoadCategories(gctx) })
	g.Go(func() error { return s.Cities.Load(gctx) })
	if err := g.Wait(); err != nil && s.logger != nil {
		// reference-data failures are non-fatal at startup; each slice holds
		// its own error for retry from the consuming screen
		s.logger.WithError(err).Warn("reference data load at startup failed")
	}

	return unsubscribe, nil
}
