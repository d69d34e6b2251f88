package cli

import (
	"fmt"
	"os"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

// checkNoColor honours NO_COLOR (https://no-color.org/) and an explicit LOG_COLOR.
func checkNoColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	if val := os.Getenv("LOG_COLOR"); val != "" {
		return val != "true" && val != "1"
	}
	return false
}

// Enabled reports whether ANSI colors should be written.
func Enabled() bool {
	return !disableColor
}

// SetEnabled overrides the environment based default.
func SetEnabled(on bool) {
	disableColor = !on
}

// Style wraps text in a specific color code
func Style(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return fmt.Sprintf("%s%s%s", colorCode, text, Reset)
}

func CheckMark() string {
	return Style("✔", Green)
}

func Arrow() string {
	return Style("➜", Blue)
}

func CrossMark() string {
	return Style("✘", Red)
}
