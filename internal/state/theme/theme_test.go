package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coffeekz/appstate/internal/domain/entity"
)

func TestToggleCycleClosure(t *testing.T) {
	s := New(nil)
	s.SetMode(entity.ModeLight)

	s.Toggle()
	assert.Equal(t, entity.ModeDark, s.State().Mode)
	s.Toggle()
	assert.Equal(t, entity.ModeSystem, s.State().Mode)
	s.Toggle()
	assert.Equal(t, entity.ModeLight, s.State().Mode)
	assert.False(t, s.State().Dark)
	assert.Equal(t, entity.LightScheme, s.State().Colors)
}

func TestEnteringSystemKeepsDarkUntilOSReport(t *testing.T) {
	s := New(nil)
	s.SetMode(entity.ModeDark)
	assert.True(t, s.State().Dark)

	s.SetMode(entity.ModeSystem)
	assert.True(t, s.State().Dark, "entering system must not rewrite the dark flag")

	s.UpdateSystemDark(false)
	assert.False(t, s.State().Dark)
	assert.Equal(t, entity.LightScheme, s.State().Colors)
}

func TestUpdateSystemDarkNoopOutsideSystemMode(t *testing.T) {
	s := New(nil)
	s.SetMode(entity.ModeLight)
	before := s.Rev()

	s.UpdateSystemDark(true)

	st := s.State()
	assert.False(t, st.Dark)
	assert.Equal(t, entity.LightScheme, st.Colors)
	assert.Equal(t, before, s.Rev(), "no-op must not bump the revision")
}

func TestSetModeIgnoresUnknownValue(t *testing.T) {
	s := New(nil)
	s.SetMode(entity.ModeDark)
	before := s.Rev()

	s.SetMode(entity.ThemeMode("sepia"))

	assert.Equal(t, entity.ModeDark, s.State().Mode)
	assert.Equal(t, before, s.Rev())
}
