package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

func newTestApp(t *testing.T, chat *mockChatService, docs *mockDocumentService) *App {
	t.Helper()
	app, err := NewApp(NewPorts(chat, docs))
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

func update(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	require.Same(t, app, model)
	return cmd
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(NewPorts(&mockChatService{}, nil))

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingChatService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrInvalidPorts)
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(NewPorts(&mockChatService{}, nil))
	require.NoError(t, err)

	update(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "Cortex Chef")
}

func TestApp_CtrlCQuits(t *testing.T) {
	app := newTestApp(t, &mockChatService{}, nil)

	cmd := update(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app := newTestApp(t, &mockChatService{}, nil)

	cmd := update(t, app, messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_MenuToChat_AskAndBack(t *testing.T) {
	chat := &mockChatService{answer: &domain.Answer{
		Text:    "Try a mango lassi.",
		Related: []domain.RelatedDocument{{RelativePath: "mango-lassi.pdf"}},
	}}
	app := newTestApp(t, chat, nil)

	cmd := update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	update(t, app, cmd())
	require.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Contains(t, app.View(), "Food Recipe Assistant")

	for _, r := range "mango" {
		update(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	cmd = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	update(t, app, cmd())

	assert.Equal(t, "mango", chat.lastAsk.Query)
	assert.NoError(t, app.Err())
	out := app.View()
	assert.Contains(t, out, "Try a mango lassi.")
	assert.Contains(t, out, "mango-lassi.pdf")

	cmd = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	update(t, app, cmd())
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_AnswerError(t *testing.T) {
	app := newTestApp(t, &mockChatService{err: domain.ErrLLMUnavailable}, nil)
	update(t, app, messages.ViewChanged{View: messages.ViewChat})

	update(t, app, messages.AnswerReceived{Question: "soup", Err: domain.ErrLLMUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrLLMUnavailable)
}

func TestApp_Documents(t *testing.T) {
	docs := &mockDocumentService{
		documents: []domain.DocumentSummary{
			{RelativePath: "greek-salad.pdf", Chunks: 2, Category: domain.CategorySalads, Consistent: true},
		},
		chunks: []domain.ChunkRow{{RelativePath: "greek-salad.pdf", Chunk: "Chop cucumbers."}},
		link:   "http://localhost:8080/stage/greek-salad.pdf",
	}
	app := newTestApp(t, &mockChatService{}, docs)

	cmd := update(t, app, messages.ViewChanged{View: messages.ViewDocuments})
	require.NotNil(t, cmd)
	update(t, app, cmd())
	assert.Contains(t, app.View(), "greek-salad.pdf")

	cmd = update(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	update(t, app, cmd())
	assert.Contains(t, app.View(), "Chop cucumbers.")
	assert.Contains(t, app.View(), docs.link)
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, &mockChatService{}, nil)

	update(t, app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, app.View(), "ctrl+t      Toggle chat history")

	update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, &mockChatService{}, nil)
	update(t, app, messages.ViewChanged{View: messages.ViewChat})

	update(t, app, messages.ErrorOccurred{Err: domain.ErrSearchUnavailable})

	assert.ErrorIs(t, app.Err(), domain.ErrSearchUnavailable)
	assert.Contains(t, app.View(), "search engine unavailable")
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, &mockChatService{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
}
