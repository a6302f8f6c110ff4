// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// RelatedList shows the recipes an answer drew on, with their links.
type RelatedList struct {
	docs     []domain.RelatedDocument
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewRelatedList creates a new related documents list.
func NewRelatedList(s *styles.Styles) *RelatedList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &RelatedList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *RelatedList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *RelatedList) Update(msg tea.Msg) (*RelatedList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the list.
func (r *RelatedList) View() string {
	if len(r.docs) == 0 {
		return r.styles.Muted.Render("No related recipes yet")
	}

	lines := make([]string, 0, len(r.docs)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Related recipes (%d)", len(r.docs))), "")

	// Each document takes two lines
	visible := max((r.height-2)/2, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.docs))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderDoc(i, r.docs[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *RelatedList) renderDoc(index int, doc domain.RelatedDocument) string {
	indicator := "  "
	style := r.styles.Normal
	if index == r.selected {
		indicator = "> "
		style = r.styles.Selected
	}

	link := doc.URL
	if link == "" {
		link = "(no link)"
	}
	maxLen := max(r.width-6, 20)
	if len(link) > maxLen {
		link = link[:maxLen-3] + "..."
	}

	return style.Render(indicator+doc.RelativePath) + "\n" + r.styles.Muted.Render("    "+link)
}

// SetDocuments replaces the list contents.
func (r *RelatedList) SetDocuments(docs []domain.RelatedDocument) {
	r.docs = docs
	r.selected = 0
}

// Documents returns the current documents.
func (r *RelatedList) Documents() []domain.RelatedDocument {
	return r.docs
}

// Selected returns the index of the selected document.
func (r *RelatedList) Selected() int {
	return r.selected
}

// SelectedDocument returns the selected document, or nil if none.
func (r *RelatedList) SelectedDocument() *domain.RelatedDocument {
	if r.selected < 0 || r.selected >= len(r.docs) {
		return nil
	}
	return &r.docs[r.selected]
}

// MoveUp moves selection up.
func (r *RelatedList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *RelatedList) MoveDown() {
	if r.selected < len(r.docs)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *RelatedList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of documents.
func (r *RelatedList) Count() int {
	return len(r.docs)
}
