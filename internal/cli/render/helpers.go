package render

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

// FormatError formats a fatal error the way the CLI prints it
func FormatError(err error) string {
	return color.New(color.FgRed).Sprintf("Error: %v", err)
}

// FormatDuration rounds durations for tables
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

// shortAddress abbreviates 0x-prefixed hex values
func shortAddress(hex string) string {
	if len(hex) <= 14 {
		return hex
	}
	return fmt.Sprintf("%s…%s", hex[:8], hex[len(hex)-6:])
}
