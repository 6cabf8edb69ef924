package theme

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/evanschultz/kanbo/internal/domain"
)

// Styles carries the per-segment styles the board renderer decorates
// with. Styling never changes visible width; the renderer measures
// plain text before applying any of these.
type Styles struct {
	Header     lipgloss.Style
	Divider    lipgloss.Style
	ID         lipgloss.Style
	Todo       lipgloss.Style
	InProgress lipgloss.Style
	Done       lipgloss.Style
	Suffix     lipgloss.Style
	Empty      lipgloss.Style
}

// NewStyles builds the style set for a palette under one color
// profile. The Ascii profile yields identity styles.
func NewStyles(palette Palette, profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	primary := lipgloss.Color(palette.Primary)
	return Styles{
		Header:     r.NewStyle().Foreground(primary).Bold(true),
		Divider:    r.NewStyle().Foreground(primary),
		ID:         r.NewStyle().Foreground(primary).Bold(true),
		Todo:       r.NewStyle().Foreground(lipgloss.Color(palette.Todo)),
		InProgress: r.NewStyle().Foreground(lipgloss.Color(palette.InProgress)),
		Done:       r.NewStyle().Foreground(lipgloss.Color(palette.Done)),
		Suffix:     r.NewStyle().Foreground(lipgloss.Color(palette.Done)),
		Empty:      r.NewStyle().Foreground(primary).Faint(true),
	}
}

// Title returns the body style for one status.
func (s Styles) Title(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return s.InProgress
	case domain.StatusDone:
		return s.Done
	default:
		return s.Todo
	}
}

// Plain returns undecorated styles, used where no terminal detection
// has run.
func Plain() Styles {
	return NewStyles(DefaultPalette(), termenv.Ascii)
}
