// Package main provides a quick preview of the kanbo palette and the
// styles the board renderer derives from it.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/evanschultz/kanbo/internal/theme"
)

func main() {
	// Resolve against the live process environment so exported
	// KANBO_* overrides show up in the preview.
	palette := theme.ResolvePalette(os.Getenv, nil, theme.Overrides{})

	fmt.Println("=== KANBO PALETTE ===")
	displayPalette(palette)

	fmt.Println("\n\n=== BOARD STYLE SAMPLES ===")
	displayStyleSamples(palette)

	fmt.Println("\nOverride precedence: process env beats the .env file next to the")
	fmt.Println("data file, which beats [theme] in the config file, which beats")
	fmt.Println("the built-in defaults. NO_COLOR disables styling entirely.")
}

func displayPalette(palette theme.Palette) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("Surface", "Env key", "Hex", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle()
		})

	surfaces := []struct {
		name   string
		envKey string
		hex    string
	}{
		{"Primary", theme.EnvPrimary, palette.Primary},
		{"Todo", theme.EnvTodo, palette.Todo},
		{"In-progress", theme.EnvInProgress, palette.InProgress},
		{"Done", theme.EnvDone, palette.Done},
	}

	for _, s := range surfaces {
		sample := lipgloss.NewStyle().
			Background(lipgloss.Color(s.hex)).
			Foreground(contrastFor(s.hex)).
			Width(12).
			Align(lipgloss.Center).
			Render(s.hex)
		t.Row(s.name, s.envKey, s.hex, sample)
	}

	fmt.Println(t.Render())
}

func displayStyleSamples(palette theme.Palette) {
	styles := theme.NewStyles(palette, termenv.EnvColorProfile())

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("Style", "Used for", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle()
		})

	t.Row("Header", "column titles", styles.Header.Render("TO DO"))
	t.Row("Divider", "rule under the header row", styles.Divider.Render("------------"))
	t.Row("ID", "task number prefix", styles.ID.Render("4.")+" "+styles.Todo.Render("buy groceries"))
	t.Row("Todo", "titles in the first column", styles.Todo.Render("buy groceries for the week"))
	t.Row("InProgress", "titles in the middle column", styles.InProgress.Render("draft the quarterly report"))
	t.Row("Done", "titles in the last column", styles.Done.Render("ship the birthday present"))
	t.Row("Suffix", "completion date marker", styles.Suffix.Render("(✓ 2026-03-12)"))
	t.Row("Empty", "empty column placeholder", styles.Empty.Render("(empty)"))

	fmt.Println(t.Render())
}

// Pick black or white text so the hex label stays readable on its own
// swatch.
func contrastFor(hex string) lipgloss.Color {
	if len(hex) == 7 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return lipgloss.Color("15")
	}
	r, errR := strconv.ParseInt(hex[0:2], 16, 32)
	g, errG := strconv.ParseInt(hex[2:4], 16, 32)
	b, errB := strconv.ParseInt(hex[4:6], 16, 32)
	if errR != nil || errG != nil || errB != nil {
		return lipgloss.Color("15")
	}
	// Quick perceived-luminance split.
	if (r*299+g*587+b*114)/1000 >= 128 {
		return lipgloss.Color("0")
	}
	return lipgloss.Color("15")
}
