// Package main renders board layout experiments for the kanbo renderer.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/theme"
)

// defaultWidths lists the sweep rendered when no -widths flag is given.
const defaultWidths = "36,60,84,120"

// minSweepWidth defines the minimum supported render width.
const minSweepWidth = 24

// maxSweepWidth defines the maximum supported render width.
const maxSweepWidth = 200

// boardFixture describes one previewable board population.
type boardFixture struct {
	ID    int
	Name  string
	Focus string
	Build func(now time.Time) *board.Board
}

// main runs the board layout playground.
func main() {
	widthsFlag := flag.String("widths", defaultWidths, "comma-separated render widths")
	flag.Parse()

	widths := parseWidths(*widthsFlag)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	styles := theme.NewStyles(theme.DefaultPalette(), termenv.EnvColorProfile())
	fmt.Println(renderSheet(buildFixtures(), widths, now, styles))
}

// buildFixtures returns deterministic board populations that stress the
// layout engine in different ways.
func buildFixtures() []boardFixture {
	return []boardFixture{
		{
			ID:    1,
			Name:  "Everyday Mix",
			Focus: "typical titles across all three columns",
			Build: func(now time.Time) *board.Board {
				b := board.New()
				b.AddTask("buy groceries for the week", now)
				b.AddTask("call the bank about the card", now)
				draft, _ := b.AddTask("draft the quarterly report", now)
				tap, _ := b.AddTask("fix the leaking kitchen tap", now)
				ship, _ := b.AddTask("ship the birthday present", now)
				b.MoveByID(draft.ID, "in-progress", now)
				b.MoveByID(tap.ID, "in-progress", now)
				b.MoveByID(ship.ID, "done", now.Add(-48*time.Hour))
				return b
			},
		},
		{
			ID:    2,
			Name:  "Wrap Pressure",
			Focus: "multi-line word wrap plus one unbroken token forcing a hard split",
			Build: func(now time.Time) *board.Board {
				b := board.New()
				b.AddTask("reorganize the garage shelving and label every storage bin before winter", now)
				b.AddTask("https://example.com/a-very-long-unbroken-resource-locator-path", now)
				plants, _ := b.AddTask("water plants", now)
				b.MoveByID(plants.ID, "in-progress", now)
				return b
			},
		},
		{
			ID:    3,
			Name:  "Done Column Squeeze",
			Focus: "long done titles competing with their completion suffixes",
			Build: func(now time.Time) *board.Board {
				b := board.New()
				handbook, _ := b.AddTask("publish the updated onboarding handbook to the shared drive", now)
				renewal, _ := b.AddTask("renew the domain and update the dns records", now)
				receipts, _ := b.AddTask("archive last year's receipts", now)
				b.AddTask("review open pull requests", now)
				b.MoveByID(handbook.ID, "done", now.Add(-24*time.Hour))
				b.MoveByID(renewal.ID, "done", now.Add(-72*time.Hour))
				b.MoveByID(receipts.ID, "done", now)
				return b
			},
		},
		{
			ID:    4,
			Name:  "Sparse Board",
			Focus: "placeholder rendering for empty columns",
			Build: func(now time.Time) *board.Board {
				b := board.New()
				b.AddTask("the only task", now)
				return b
			},
		},
	}
}

// renderSheet renders all fixtures into one terminal-friendly output.
func renderSheet(fixtures []boardFixture, widths []int, now time.Time, styles theme.Styles) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")).Render("kanbo board layout playground")
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("239")).
		Render(fmt.Sprintf("widths=%v  fixed sample content", widths))
	sections := []string{title, subtitle}
	for _, fixture := range fixtures {
		sections = append(sections, renderFixtureCard(fixture, widths, now, styles))
	}
	return strings.Join(sections, "\n\n")
}

// renderFixtureCard renders one bordered fixture preview card with the
// same board drawn at every requested width.
func renderFixtureCard(fixture boardFixture, widths []int, now time.Time, styles theme.Styles) string {
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("239")).
		Padding(0, 1)
	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Render(fmt.Sprintf("%02d. %s", fixture.ID, fixture.Name))
	focus := lipgloss.NewStyle().
		Foreground(lipgloss.Color("239")).
		Render("focus: " + fixture.Focus)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	b := fixture.Build(now)
	parts := []string{label, focus}
	for _, width := range widths {
		parts = append(parts, "", dim.Render(fmt.Sprintf("width=%d", width)), b.Render(width, styles))
	}
	return cardStyle.Render(strings.Join(parts, "\n"))
}

// parseWidths converts the comma-separated flag value into a clamped
// width sweep, dropping fields that do not parse.
func parseWidths(raw string) []int {
	var widths []int
	for _, field := range strings.Split(raw, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || v <= 0 {
			continue
		}
		widths = append(widths, clamp(v, minSweepWidth, maxSweepWidth))
	}
	if len(widths) == 0 {
		return parseWidths(defaultWidths)
	}
	return widths
}

// clamp constrains one integer between lower and upper bounds.
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
