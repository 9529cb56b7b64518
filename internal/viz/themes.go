package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colour scheme for figures and chrome.
type Theme struct {
	Name    string
	Curve   lipgloss.Color // loss curve and "w before"
	Accent  lipgloss.Color // update, secant and "w after"
	Guide   lipgloss.Color // dotted guides and loss change
	Primary lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:    "classic",
		Curve:   lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#ff4444"),
		Guide:   lipgloss.Color("#888899"),
		Primary: lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Curve:   lipgloss.Color("#00ff00"), // Green phosphor
		Accent:  lipgloss.Color("#88ff88"),
		Guide:   lipgloss.Color("#005500"),
		Primary: lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Curve:   lipgloss.Color("#e0f0ff"),
		Accent:  lipgloss.Color("#ffd700"),
		Guide:   lipgloss.Color("#4488aa"),
		Primary: lipgloss.Color("#00a8cc"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Curve:   lipgloss.Color("#fff5f5"),
		Accent:  lipgloss.Color("#ff6b6b"), // Coral
		Guide:   lipgloss.Color("#8b6b8c"),
		Primary: lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Warning: lipgloss.Color("#ffc048"),
	}

	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// NextTheme returns the theme after t in Themes, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// TraceColor maps a figure colour name onto the theme palette.
func (t Theme) TraceColor(name string) lipgloss.Color {
	switch name {
	case "black":
		return t.Curve
	case "red":
		return t.Accent
	case "gray", "grey":
		return t.Guide
	}
	return t.Text
}
