package clap

import (
	"os"
	"regexp"
	"strings"

	"golang.org/x/sys/unix"
)

func ptrOf[T any](v T) *T {
	return &v
}

func defaultIfNil[T any](v *T, defaultValue T) T {
	if v == nil {
		return defaultValue
	}
	return *v
}

var (
	kebabLowerUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	kebabAcronym    = regexp.MustCompile(`([A-Z]+)([A-Z][a-z])`)
	kebabRepeats    = regexp.MustCompile(`-+`)
)

// toKebabCase converts snake_case, SCREAMING_SNAKE_CASE, camelCase and
// PascalCase identifiers to kebab-case. Acronym runs are kept together, so
// "HTTPSConnection" becomes "https-connection".
func toKebabCase(name string) string {
	name = strings.ReplaceAll(name, "_", "-")
	name = kebabLowerUpper.ReplaceAllString(name, "$1-$2")
	name = kebabAcronym.ReplaceAllString(name, "$1-$2")
	name = strings.ToLower(name)
	name = kebabRepeats.ReplaceAllString(name, "-")
	return strings.Trim(name, "-")
}

// fieldNameToValueName derives the default display value name for a field,
// e.g. "OutputFile" becomes "OUTPUT_FILE".
func fieldNameToValueName(fieldName string) string {
	return strings.ToUpper(strings.ReplaceAll(toKebabCase(fieldName), "-", "_"))
}

func getTerminalWidth() int {
	fd := int(os.Stdout.Fd())
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 80
	}
	return int(ws.Col)
}
