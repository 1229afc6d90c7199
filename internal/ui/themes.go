package ui

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the 256-color terminal codes of a theme. The same codes feed
// the inline escape sequences and the lipgloss table styles.
type Palette struct {
	Success   int
	Warning   int
	Error     int
	Highlight int
	Accent    int
	Border    int
}

// DarkPalette suits dark terminal backgrounds.
var DarkPalette = Palette{Success: 82, Warning: 220, Error: 196, Highlight: 141, Accent: 45, Border: 245}

// Theme is the set of escape sequences used for inline CLI output. An empty
// field prints uncolored text.
type Theme struct {
	Name      string
	Success   string
	Warning   string
	Error     string
	Highlight string // kernel names
	Accent    string // environment values and paths
	Bold      string
	Reset     string

	table TableTheme
}

// TableTheme holds the lipgloss styles of the comparison table.
type TableTheme struct {
	Header  lipgloss.Style
	Cell    lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Border  lipgloss.Style
}

func ansi(code int) string { return fmt.Sprintf("\033[38;5;%dm", code) }

// NewTheme builds a colored theme from p.
func NewTheme(name string, p Palette) Theme {
	color := func(code int) lipgloss.Color { return lipgloss.Color(fmt.Sprint(code)) }
	cell := lipgloss.NewStyle().Padding(0, 1)
	return Theme{
		Name:      name,
		Success:   ansi(p.Success),
		Warning:   ansi(p.Warning),
		Error:     ansi(p.Error),
		Highlight: ansi(p.Highlight),
		Accent:    ansi(p.Accent),
		Bold:      "\033[1m",
		Reset:     "\033[0m",
		table: TableTheme{
			Header:  cell.Bold(true).Foreground(color(p.Accent)),
			Cell:    cell,
			Success: cell.Foreground(color(p.Success)),
			Failure: cell.Foreground(color(p.Error)),
			Border:  lipgloss.NewStyle().Foreground(color(p.Border)),
		},
	}
}

var (
	// DarkTheme is the default theme.
	DarkTheme = NewTheme("dark", DarkPalette)

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{
		Name: "none",
		table: TableTheme{
			Header:  lipgloss.NewStyle().Padding(0, 1),
			Cell:    lipgloss.NewStyle().Padding(0, 1),
			Success: lipgloss.NewStyle().Padding(0, 1),
			Failure: lipgloss.NewStyle().Padding(0, 1),
			Border:  lipgloss.NewStyle(),
		},
	}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTableTheme returns the table styles of the active theme.
func GetCurrentTableTheme() TableTheme {
	return GetCurrentTheme().table
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme initializes the theme based on the noColor flag and environment.
// It respects the NO_COLOR environment variable (https://no-color.org/).
func InitTheme(noColor bool) {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		noColor = true
	}
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
