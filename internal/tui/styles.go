package tui

import "github.com/charmbracelet/lipgloss"

// Theme names accepted by tui.theme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme is the set of styles the browser renders with.
type Theme struct {
	Name string

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Folder      lipgloss.Style
	Coordinate  lipgloss.Style
	Measurement lipgloss.Style
	Detail      lipgloss.Style
	Selected    lipgloss.Style
	Marked      lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Prompt      lipgloss.Style
	Box         lipgloss.Style
}

type palette struct {
	primary lipgloss.Color
	accent  lipgloss.Color
	folder  lipgloss.Color
	text    lipgloss.Color
	muted   lipgloss.Color
	surface lipgloss.Color
	errc    lipgloss.Color
	border  lipgloss.Color
}

var (
	lightPalette = palette{
		primary: lipgloss.Color("#2563EB"), // blue-600
		accent:  lipgloss.Color("#059669"), // emerald-600
		folder:  lipgloss.Color("#B45309"), // amber-700
		text:    lipgloss.Color("#111827"),
		muted:   lipgloss.Color("#6B7280"),
		surface: lipgloss.Color("#DBEAFE"),
		errc:    lipgloss.Color("#DC2626"),
		border:  lipgloss.Color("#9CA3AF"),
	}
	darkPalette = palette{
		primary: lipgloss.Color("#60A5FA"),
		accent:  lipgloss.Color("#10B981"),
		folder:  lipgloss.Color("#FBBF24"),
		text:    lipgloss.Color("#F9FAFB"),
		muted:   lipgloss.Color("#9CA3AF"),
		surface: lipgloss.Color("#1F2937"),
		errc:    lipgloss.Color("#F87171"),
		border:  lipgloss.Color("#6B7280"),
	}
)

// ThemeFor returns the named theme. Unknown names get the light theme.
func ThemeFor(name string) Theme {
	if name == ThemeDark {
		return newTheme(ThemeDark, darkPalette)
	}
	return newTheme(ThemeLight, lightPalette)
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t.Name == ThemeDark {
		return ThemeFor(ThemeLight)
	}
	return ThemeFor(ThemeDark)
}

func newTheme(name string, p palette) Theme {
	return Theme{
		Name: name,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
		Folder: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.folder),
		Coordinate:  lipgloss.NewStyle().Foreground(p.text),
		Measurement: lipgloss.NewStyle().Foreground(p.accent),
		Detail:      lipgloss.NewStyle().Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.surface).
			Bold(true),
		Marked: lipgloss.NewStyle().Foreground(p.primary),
		Status: lipgloss.NewStyle().Foreground(p.muted),
		Error:  lipgloss.NewStyle().Foreground(p.errc),
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
	}
}
