package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme for the play view
type Theme struct {
	Name    string
	Alive   lipgloss.Color
	Cursor  lipgloss.Color
	Border  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Rewind  lipgloss.Color
}

var (
	ThemeRetroGreen = Theme{
		Name:    "retro",
		Alive:   lipgloss.Color("#00ff00"), // Green phosphor
		Cursor:  lipgloss.Color("#88ff88"),
		Border:  lipgloss.Color("#005500"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#007700"),
		Running: lipgloss.Color("#88ff88"),
		Paused:  lipgloss.Color("#ffff00"),
		Rewind:  lipgloss.Color("#ff8800"),
	}

	ThemeCyberpunk = Theme{
		Name:    "cyberpunk",
		Alive:   lipgloss.Color("#00ffff"),
		Cursor:  lipgloss.Color("#ff00ff"),
		Border:  lipgloss.Color("#444466"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Running: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Rewind:  lipgloss.Color("#ff4444"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Alive:   lipgloss.Color("#ffffff"),
		Cursor:  lipgloss.Color("#0088ff"),
		Border:  lipgloss.Color("#888888"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Running: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffaa00"),
		Rewind:  lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{
		ThemeRetroGreen,
		ThemeCyberpunk,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeRetroGreen
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	alive, cursor, panel, label, value, help lipgloss.Style
	modes                                    map[string]lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		alive:  lipgloss.NewStyle().Foreground(t.Alive),
		cursor: lipgloss.NewStyle().Foreground(t.Cursor).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		label: lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value: lipgloss.NewStyle().Foreground(t.Text),
		help:  lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		modes: map[string]lipgloss.Style{
			"running": lipgloss.NewStyle().Bold(true).Foreground(t.Running),
			"paused":  lipgloss.NewStyle().Bold(true).Foreground(t.Paused),
			"rewind":  lipgloss.NewStyle().Bold(true).Foreground(t.Rewind).Blink(true),
		},
	}
}
