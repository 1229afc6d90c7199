// Package ui provides theme and color support for the command-line output.
// It defines ANSI color schemes, the lipgloss styles of the comparison table,
// and accessors that honour --no-color and NO_COLOR.
package ui
