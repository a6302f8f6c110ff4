// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// AskRequested is a command to ask the chef a question.
type AskRequested struct {
	Request domain.AskRequest
}

// AnswerReceived carries the chef's answer back to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// CategoryChanged is sent when the category filter changes.
type CategoryChanged struct {
	Category domain.Category
}

// ConversationReset clears the chat history.
type ConversationReset struct{}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewChat is the conversation with the chef.
	ViewChat
	// ViewDocuments lists ingested recipe documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewChat:
		return "chat"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the ingested document summaries.
type DocumentsLoaded struct {
	Documents []domain.DocumentSummary
	Err       error
}

// ChunksLoaded carries the chunks and link of one document.
type ChunksLoaded struct {
	RelativePath string
	Chunks       []domain.ChunkRow
	Link         string
	Err          error
}
