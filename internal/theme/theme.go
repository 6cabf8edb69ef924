package theme

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
)

// Default palette hex values.
const (
	DefaultPrimary    = "#476EAE"
	DefaultTodo       = "#48B3AF"
	DefaultInProgress = "#F6FF99"
	DefaultDone       = "#A7E399"
)

// Environment keys accepted for palette overrides, in the process
// environment or a .env file next to the data directory.
const (
	EnvPrimary    = "KANBO_PRIMARY"
	EnvTodo       = "KANBO_TODO"
	EnvInProgress = "KANBO_INPROGRESS"
	EnvDone       = "KANBO_DONE"
)

// Palette holds the resolved hex colors for the board surfaces.
type Palette struct {
	Primary    string
	Todo       string
	InProgress string
	Done       string
}

// Overrides carries optional hex values from the config file.
type Overrides struct {
	Primary    string
	Todo       string
	InProgress string
	Done       string
}

// DefaultPalette returns the built-in colors.
func DefaultPalette() Palette {
	return Palette{
		Primary:    DefaultPrimary,
		Todo:       DefaultTodo,
		InProgress: DefaultInProgress,
		Done:       DefaultDone,
	}
}

// ResolvePalette layers palette sources: process env beats the .env
// file, which beats the config file, which beats the defaults. Values
// that are not six hex digits (leading # optional) are ignored.
func ResolvePalette(getenv func(string) string, fileEnv map[string]string, cfg Overrides) Palette {
	pick := func(key, cfgValue, fallback string) string {
		if hex, ok := normalizeHex(getenv(key)); ok {
			return hex
		}
		if hex, ok := normalizeHex(fileEnv[key]); ok {
			return hex
		}
		if hex, ok := normalizeHex(cfgValue); ok {
			return hex
		}
		return fallback
	}
	return Palette{
		Primary:    pick(EnvPrimary, cfg.Primary, DefaultPrimary),
		Todo:       pick(EnvTodo, cfg.Todo, DefaultTodo),
		InProgress: pick(EnvInProgress, cfg.InProgress, DefaultInProgress),
		Done:       pick(EnvDone, cfg.Done, DefaultDone),
	}
}

// LoadDotEnv reads override values from a .env file. A missing or
// unreadable file yields no overrides.
func LoadDotEnv(path string) map[string]string {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil
	}
	return values
}

// DetectProfile resolves the color capability for the process:
// NO_COLOR disables entirely, FORCE_COLOR enables without a TTY, and
// COLORTERM selects truecolor over the 256-color fallback.
func DetectProfile(getenv func(string) string, stdoutIsTTY bool) termenv.Profile {
	if getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if !isTruthy(getenv("FORCE_COLOR")) && !stdoutIsTTY {
		return termenv.Ascii
	}
	colorterm := strings.ToLower(getenv("COLORTERM"))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		return termenv.TrueColor
	}
	return termenv.ANSI256
}

func normalizeHex(raw string) (string, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if len(hex) != 6 {
		return "", false
	}
	for _, r := range hex {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return "", false
		}
	}
	return "#" + hex, true
}

func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
