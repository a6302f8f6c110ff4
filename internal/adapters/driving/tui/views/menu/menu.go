// Package menu is the start screen of the TUI.
package menu

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Selecting it switches to View, or quits.
type Item struct {
	Label       string
	Description string
	View        messages.ViewType
	Quit        bool
}

func defaultItems() []Item {
	return []Item{
		{Label: "Chat", Description: "Ask the chef about ingredients, dishes and techniques", View: messages.ViewChat},
		{Label: "Documents", Description: "Browse ingested recipes, their chunks and categories", View: messages.ViewDocuments},
		{Label: "Help", Description: "Keyboard shortcuts", View: messages.ViewHelp},
		{Label: "Quit", Description: "Leave the kitchen", Quit: true},
	}
}

// View is the menu. Entries are picked with the arrow keys and enter or
// with their number.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the menu.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keymap: keymap.DefaultKeyMap(),
		items:  defaultItems(),
		width:  80,
		height: 24,
	}
}

// Init implements the view contract; the menu has nothing to load.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		keyStr := msg.String()
		switch {
		case keymap.Matches(keyStr, v.keymap.Up):
			v.selected = max(v.selected-1, 0)
		case keymap.Matches(keyStr, v.keymap.Down):
			v.selected = min(v.selected+1, len(v.items)-1)
		case keymap.Matches(keyStr, v.keymap.Select):
			return v, v.choose(v.selected)
		case keymap.Matches(keyStr, v.keymap.Quit):
			return v, tea.Quit
		default:
			if n, err := strconv.Atoi(keyStr); err == nil && n >= 1 && n <= len(v.items) {
				v.selected = n - 1
				return v, v.choose(v.selected)
			}
		}
	}
	return v, nil
}

func (v *View) choose(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Cortex Chef"))
	b.WriteString("  ")
	b.WriteString(v.styles.Subtitle.Render("Recipe Assistant"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + label))
			b.WriteString("\n   ")
			b.WriteString(v.styles.Muted.Render(item.Description))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(fmt.Sprintf("[↑/↓] navigate  [enter/1-%d] select  [q] quit", len(v.items))))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the highlighted index.
func (v *View) Selected() int {
	return v.selected
}
