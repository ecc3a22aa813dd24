// Package theme owns the theme slice: the persisted user preference, the
// effective dark flag, and the resolved color scheme. In system mode the dark
// flag follows the OS report and nothing else writes it.
package theme

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/domain/entity"
)

// State is the theme sub-state.
type State struct {
	Mode   entity.ThemeMode
	Dark   bool
	Colors entity.ColorScheme
}

// Slice owns the theme state.
type Slice struct {
	mu     sync.Mutex
	st     State
	rev    uint64
	logger *logrus.Logger
	notify func()
}

// New constructs the theme slice, starting in system mode with the light
// palette until the first OS report arrives.
func New(logger *logrus.Logger) *Slice {
	return &Slice{
		st: State{
			Mode:   entity.ModeSystem,
			Colors: entity.LightScheme,
		},
		logger: logger,
	}
}

func (s *Slice) OnChange(fn func()) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

func (s *Slice) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

func (s *Slice) Rev() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rev
}

func (s *Slice) mutate(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.st)
	s.rev++
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// SetMode applies an explicit preference. Light and dark resolve the dark
// flag and palette immediately; entering system leaves the dark flag to the
// next OS report.
func (s *Slice) SetMode(mode entity.ThemeMode) {
	if !entity.ValidThemeMode(string(mode)) {
		if s.logger != nil {
			s.logger.WithField("mode", mode).Warn("ignoring unknown theme mode")
		}
		return
	}
	s.mutate(func(st *State) {
		st.Mode = mode
		switch mode {
		case entity.ModeLight:
			st.Dark = false
			st.Colors = entity.LightScheme
		case entity.ModeDark:
			st.Dark = true
			st.Colors = entity.DarkScheme
		case entity.ModeSystem:
			// Dark and Colors stay as-is until UpdateSystemDark fires.
		}
	})
}

// Toggle cycles the preference: light -> dark -> system -> light.
func (s *Slice) Toggle() {
	var next entity.ThemeMode
	switch s.State().Mode {
	case entity.ModeLight:
		next = entity.ModeDark
	case entity.ModeDark:
		next = entity.ModeSystem
	default:
		next = entity.ModeLight
	}
	s.SetMode(next)
}

// UpdateSystemDark forwards the OS dark-mode report. It is the only writer
// of the dark flag while in system mode, and a no-op in any other mode.
func (s *Slice) UpdateSystemDark(dark bool) {
	s.mu.Lock()
	if s.st.Mode != entity.ModeSystem {
		s.mu.Unlock()
		return
	}
	s.st.Dark = dark
	s.st.Colors = entity.SchemeFor(dark)
	s.rev++
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}
