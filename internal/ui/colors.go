package ui

// ColorReset returns the escape code that clears formatting.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorMagenta returns the highlight color.
func ColorMagenta() string { return GetCurrentTheme().Highlight }

// ColorCyan returns the accent color.
func ColorCyan() string { return GetCurrentTheme().Accent }

// ColorBold returns the bold escape code.
func ColorBold() string { return GetCurrentTheme().Bold }
