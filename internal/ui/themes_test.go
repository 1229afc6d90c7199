package ui

import "testing"

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	InitTheme(true)
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("InitTheme(true) selected %q", got)
	}
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("no-color theme must not emit escape codes")
	}
	if GetCurrentTableTheme().Header.GetBold() {
		t.Error("no-color table header should not be bold")
	}

	t.Setenv("NO_COLOR", "")
	InitTheme(false)
	if got := GetCurrentTheme().Name; got != "none" {
		t.Errorf("NO_COLOR set (even empty) should disable colors, got %q", got)
	}
}

func TestNewTheme(t *testing.T) {
	t.Parallel()
	th := NewTheme("test", Palette{Success: 1, Warning: 2, Error: 3, Highlight: 4, Accent: 5, Border: 6})
	tests := []struct {
		name, got, want string
	}{
		{"success", th.Success, "\033[38;5;1m"},
		{"warning", th.Warning, "\033[38;5;2m"},
		{"error", th.Error, "\033[38;5;3m"},
		{"highlight", th.Highlight, "\033[38;5;4m"},
		{"accent", th.Accent, "\033[38;5;5m"},
		{"reset", th.Reset, "\033[0m"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if !th.table.Header.GetBold() {
		t.Error("table header should be bold")
	}
}

func TestColorHelpersFollowTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	SetCurrentTheme(DarkTheme)
	if ColorGreen() != DarkTheme.Success || ColorCyan() != DarkTheme.Accent || ColorBold() != "\033[1m" {
		t.Error("dark theme colors not returned")
	}
	if !GetCurrentTableTheme().Header.GetBold() {
		t.Error("dark table header should be bold")
	}
}
