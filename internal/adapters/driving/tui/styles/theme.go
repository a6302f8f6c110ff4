// Package styles holds the TUI palette and lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// Theme is the colour palette. Categories gives each recipe category its
// own badge colour; the empty category ("All") uses Secondary.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	Categories map[domain.Category]lipgloss.Color
}

// DefaultTheme is a dark kitchen palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#FF6B35"), // paprika
		Secondary:  lipgloss.Color("#7FB069"), // basil
		Background: lipgloss.Color("#1E1E2E"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
		Categories: map[domain.Category]lipgloss.Color{
			domain.CategorySnacks:     lipgloss.Color("#E5C07B"), // cheddar
			domain.CategorySalads:     lipgloss.Color("#98C379"), // lettuce
			domain.CategoryMainCourse: lipgloss.Color("#E06C75"), // tomato
			domain.CategoryJuices:     lipgloss.Color("#FFB86C"), // orange
			domain.CategoryDesserts:   lipgloss.Color("#C678DD"), // berry
			domain.CategoryAppetizers: lipgloss.Color("#56B6C2"), // mint
		},
	}
}

// CategoryColor returns the badge colour for c.
func (t *Theme) CategoryColor(c domain.Category) lipgloss.Color {
	if color, ok := t.Categories[c]; ok {
		return color
	}
	return t.Secondary
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style

	// User and Assistant render the two sides of the chat.
	User      lipgloss.Style
	Assistant lipgloss.Style

	// Badge is the base for category and history badges.
	Badge lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),
		Error:   lipgloss.NewStyle().Foreground(theme.Error),
		Success: lipgloss.NewStyle().Foreground(theme.Success),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(lipgloss.Color("#181825")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),
		User:      lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Assistant: lipgloss.NewStyle().Foreground(theme.Foreground),
		Badge: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Secondary).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// CategoryBadge renders c's label on its category colour.
func (s *Styles) CategoryBadge(c domain.Category) string {
	return s.Badge.Background(s.theme.CategoryColor(c)).Render(c.Label())
}

// CategoryText renders text in c's category colour.
func (s *Styles) CategoryText(c domain.Category, text string) string {
	return lipgloss.NewStyle().Foreground(s.theme.CategoryColor(c)).Render(text)
}
