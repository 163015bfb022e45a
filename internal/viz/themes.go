package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of tables and the live view.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Spike   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeScope = Theme{
		Name:    "scope",
		Primary: lipgloss.Color("#00ff88"), // phosphor green
		Accent:  lipgloss.Color("#88ffcc"),
		Text:    lipgloss.Color("#e0ffe0"),
		Muted:   lipgloss.Color("#4a7a5a"),
		Spike:   lipgloss.Color("#ffff66"),
		Warning: lipgloss.Color("#ff8800"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Spike:   lipgloss.Color("#ff9ff3"),
		Warning: lipgloss.Color("#ffcc00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Spike:   lipgloss.Color("#ff4444"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	CurrentTheme = ThemeScope

	Themes = []Theme{ThemeScope, ThemeOcean, ThemeMinimal}
)

// GetTheme returns a theme by name, the default for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeScope
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeScope
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
