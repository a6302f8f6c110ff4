// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

// Welcome opens every conversation.
const Welcome = "Hi! I'm Ali, your personal chef friend! Tell me what ingredients you have, " +
	"and I'll help you whip up something delicious!"

// View is the chat view: transcript, question input, related recipes and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.ChatInput
	related   *list.RelatedList
	statusbar *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	history    []domain.ChatMessage
	categories []domain.Category
	category   int // index into categories; 0 is no filter
	useHistory bool
	thinking   bool

	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:      s,
		keymap:      km,
		input:       input.NewChatInput(s),
		related:     list.NewRelatedList(s),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		categories:  append([]domain.Category{""}, domain.AllCategories()...),
		useHistory:  true,
		width:       80,
		height:      24,
	}
	v.Reset()
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerReceived:
		v.handleAnswer(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.thinking = false
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()
	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(keyStr, v.keymap.Category):
		v.category = (v.category + 1) % len(v.categories)
		v.statusbar.SetCategory(v.Category())
		v.statusbar.SetMessage("Category changed to " + v.Category().Label())
		return v, nil

	case keymap.Matches(keyStr, v.keymap.History):
		v.useHistory = !v.useHistory
		v.statusbar.SetUseHistory(v.useHistory)
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Reset):
		v.Reset()
		v.statusbar.SetMessage("Conversation cleared")
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Up), keymap.Matches(keyStr, v.keymap.Down):
		if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown || !v.input.Focused() {
			v.related, _ = v.related.Update(msg)
			return v, nil
		}

	case keymap.Matches(keyStr, v.keymap.Send):
		return v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit sends the typed question unless an answer is pending.
func (v *View) submit() (*View, tea.Cmd) {
	question := strings.TrimSpace(v.input.Value())
	if question == "" || v.thinking {
		return v, nil
	}

	req := domain.AskRequest{
		Query:      question,
		Category:   v.Category(),
		History:    append([]domain.ChatMessage(nil), v.history...),
		UseHistory: v.useHistory,
	}
	v.history = append(v.history, domain.ChatMessage{Role: domain.ChatRoleUser, Content: question})
	v.input.Reset()
	v.thinking = true
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	return v, v.ask(req)
}

func (v *View) ask(req domain.AskRequest) tea.Cmd {
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ErrorOccurred{Err: ErrNoChatService}
		}
		answer, err := v.chatService.Ask(v.ctx, req)
		return messages.AnswerReceived{Question: req.Query, Answer: answer, Err: err}
	}
}

func (v *View) handleAnswer(msg messages.AnswerReceived) {
	v.thinking = false
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.history = append(v.history, domain.ChatMessage{Role: domain.ChatRoleAssistant, Content: msg.Answer.Text})
	v.related.SetDocuments(msg.Answer.Related)
	v.statusbar.Clear()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections, v.styles.Title.Render("Food Recipe Assistant"), "")

	transcript := v.renderTranscript()
	if v.width >= 100 && v.related.Count() > 0 {
		side := v.styles.Border.Padding(0, 1).Render(v.related.View())
		transcript = lipgloss.JoinHorizontal(lipgloss.Top, transcript, "  ", side)
	}
	sections = append(sections, transcript, "")

	if v.width < 100 && v.related.Count() > 0 {
		sections = append(sections, v.related.View(), "")
	}

	sections = append(sections, v.input.View(), "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTranscript renders the newest messages that fit the view.
func (v *View) renderTranscript() string {
	width := v.transcriptWidth()
	body := lipgloss.NewStyle().Width(width)

	lines := make([]string, 0, len(v.history)+1)
	for _, m := range v.history {
		if m.Role == domain.ChatRoleUser {
			lines = append(lines, v.styles.User.Render("You: ")+body.Render(m.Content))
		} else {
			lines = append(lines, v.styles.Title.Render("Chef: ")+v.styles.Assistant.Inherit(body).Render(m.Content))
		}
	}
	if v.thinking {
		lines = append(lines, v.styles.Muted.Render("Chef is thinking..."))
	}

	out := strings.Join(lines, "\n\n")
	budget := max(v.height-8, 4)
	if all := strings.Split(out, "\n"); len(all) > budget {
		out = strings.Join(all[len(all)-budget:], "\n")
	}
	return out
}

func (v *View) transcriptWidth() int {
	if v.width >= 100 {
		return v.width * 2 / 3
	}
	return max(v.width-8, 20)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.related.SetDimensions(width/3, height-10)
	v.statusbar.SetWidth(width)
}

// Reset starts the conversation over with the welcome message.
func (v *View) Reset() {
	v.history = []domain.ChatMessage{{Role: domain.ChatRoleAssistant, Content: Welcome}}
	v.related.SetDocuments(nil)
	v.input.Reset()
	v.input.Focus()
	v.thinking = false
	v.err = nil
	v.statusbar.Clear()
}

// History returns the conversation so far, welcome message first.
func (v *View) History() []domain.ChatMessage {
	return v.history
}

// Category returns the active category filter; "" means all.
func (v *View) Category() domain.Category {
	return v.categories[v.category]
}

// UseHistory reports whether follow-up questions are rewritten with history.
func (v *View) UseHistory() bool {
	return v.useHistory
}

// Thinking reports whether an answer is pending.
func (v *View) Thinking() bool {
	return v.thinking
}

// Related returns the documents referenced by the last answer.
func (v *View) Related() []domain.RelatedDocument {
	return v.related.Documents()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// SetQuestion sets the input text.
func (v *View) SetQuestion(q string) {
	v.input.SetValue(q)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
