package entity

// ThemeMode is the user-facing theme preference. In ModeSystem the effective
// dark flag follows the OS report instead of the stored preference.
type ThemeMode string

const (
	ModeLight  ThemeMode = "light"
	ModeDark   ThemeMode = "dark"
	ModeSystem ThemeMode = "system"
)

// ValidThemeMode reports whether s names a known mode.
func ValidThemeMode(s string) bool {
	switch ThemeMode(s) {
	case ModeLight, ModeDark, ModeSystem:
		return true
	}
	return false
}

// ColorScheme holds the resolved palette handed to the UI layer.
type ColorScheme struct {
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	Accent        string `json:"accent"`
	Border        string `json:"border"`
}

var (
	LightScheme = ColorScheme{
		Background:    "#FFFFFF",
		Surface:       "#F6F2EC",
		TextPrimary:   "#1F1B16",
		TextSecondary: "#6E655C",
		Accent:        "#8B5E34",
		Border:        "#E3DCD3",
	}

	DarkScheme = ColorScheme{
		Background:    "#14100C",
		Surface:       "#201A14",
		TextPrimary:   "#F2EDE7",
		TextSecondary: "#A69C90",
		Accent:        "#C49A6C",
		Border:        "#3A322A",
	}
)

// SchemeFor resolves the palette for a dark-mode flag.
func SchemeFor(dark bool) ColorScheme {
	if dark {
		return DarkScheme
	}
	return LightScheme
}
