// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service not available")

// chunkPreview is the number of characters shown per chunk in detail mode.
const chunkPreview = 200

// View is the documents list view. Enter opens the chunks of the
// selected document; esc returns to the list, then to the menu.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context

	documents    []domain.DocumentSummary
	selected     int
	scrollOffset int

	// detail mode
	showingChunks bool
	chunks        []domain.ChunkRow
	link          string
	chunkOffset   int

	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		documents:       []domain.DocumentSummary{},
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init resets the view and loads the document list.
func (v *View) Init() tea.Cmd {
	v.selected = 0
	v.scrollOffset = 0
	v.showingChunks = false
	v.err = nil
	v.loading = true
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.DocumentsLoaded{Err: ErrNoDocumentService}
		}
		docs, err := v.documentService.List(v.ctx)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

func (v *View) loadChunks(relativePath string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.ChunksLoaded{RelativePath: relativePath, Err: ErrNoDocumentService}
		}
		chunks, err := v.documentService.Chunks(v.ctx, relativePath)
		if err != nil {
			return messages.ChunksLoaded{RelativePath: relativePath, Err: err}
		}
		// A missing link still shows the chunks.
		link, _ := v.documentService.Link(v.ctx, relativePath)
		return messages.ChunksLoaded{RelativePath: relativePath, Chunks: chunks, Link: link}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.showingChunks {
			return v.handleChunksKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.documents = msg.Documents
		v.err = nil
		if v.selected >= len(v.documents) {
			v.selected = max(len(v.documents)-1, 0)
		}
		return v, nil

	case messages.ChunksLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.chunks = msg.Chunks
		v.link = msg.Link
		v.chunkOffset = 0
		v.showingChunks = true
		return v, nil

	case messages.ErrorOccurred:
		v.loading = false
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if doc := v.SelectedDocument(); doc != nil {
			v.loading = true
			return v, v.loadChunks(doc.RelativePath)
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "r":
		v.loading = true
		return v, v.loadDocuments()
	}

	return v, nil
}

func (v *View) handleChunksKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.chunkOffset > 0 {
			v.chunkOffset--
		}
	case "down", "j":
		if v.chunkOffset < len(v.chunks)-1 {
			v.chunkOffset++
		}
	case "esc":
		v.showingChunks = false
		v.chunks = nil
		v.link = ""
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// title, separator, help and padding
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	if v.showingChunks {
		return v.renderChunks()
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Recipe documents (%d)", len(v.documents))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents ingested yet. Run 'cortex-chef upload --ingest'."))
	default:
		visibleItems := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
			b.WriteString(v.renderDocument(i, &v.documents[i]))
			b.WriteString("\n")
		}
		if len(v.documents) > visibleItems {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visibleItems, len(v.documents)),
				len(v.documents))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] chunks  [r] reload  [esc] back"))
	return b.String()
}

func (v *View) renderDocument(index int, doc *domain.DocumentSummary) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := doc.RelativePath
	maxNameLen := max(v.width/2-4, 10)
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	category := doc.Category.Label()
	classified := doc.Consistent && doc.Category != ""
	switch {
	case !doc.Consistent:
		category = "(inconsistent)"
	case doc.Category == "":
		category = "(unclassified)"
	}
	category = fmt.Sprintf("%-14s", category)
	chunks := fmt.Sprintf(" %3d chunks", doc.Chunks)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s%s", indicator, maxNameLen, name, category, chunks))
	}
	if classified {
		category = v.styles.CategoryText(doc.Category, category)
	} else {
		category = v.styles.Muted.Render(category)
	}
	return v.styles.Normal.Render(indicator) +
		v.styles.Normal.Render(fmt.Sprintf("%-*s  ", maxNameLen, name)) +
		category + v.styles.Muted.Render(chunks)
}

func (v *View) renderChunks() string {
	var b strings.Builder

	name := ""
	if doc := v.SelectedDocument(); doc != nil {
		name = doc.RelativePath
	}
	b.WriteString(v.styles.Title.Render(name))
	b.WriteString("\n")
	if v.link != "" {
		b.WriteString(v.styles.Muted.Render(v.link))
	} else {
		b.WriteString(v.styles.Muted.Render("(no link)"))
	}
	b.WriteString("\n\n")

	if len(v.chunks) == 0 {
		b.WriteString(v.styles.Muted.Render("No chunks."))
	}
	visible := max((v.height-8)/4, 1)
	for i := v.chunkOffset; i < len(v.chunks) && i < v.chunkOffset+visible; i++ {
		text := strings.Join(strings.Fields(v.chunks[i].Chunk), " ")
		if len(text) > chunkPreview {
			text = text[:chunkPreview] + "..."
		}
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Chunk %d/%d", i+1, len(v.chunks))))
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Width(max(v.width-4, 20)).Render(text))
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [esc] back to list"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.DocumentSummary {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	if v.selected < len(v.documents) {
		return &v.documents[v.selected]
	}
	return nil
}

// IsShowingChunks reports whether the chunk detail is visible.
func (v *View) IsShowingChunks() bool {
	return v.showingChunks
}

// Chunks returns the chunks of the opened document.
func (v *View) Chunks() []domain.ChunkRow {
	return v.chunks
}

// Link returns the link of the opened document.
func (v *View) Link() string {
	return v.link
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
