package domain

// ChatRole identifies the author of a chat message.
type ChatRole string

// Chat roles.
const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AskRequest is a user question with optional filter and history.
type AskRequest struct {
	// Query is the free-text question.
	Query string

	// Category restricts retrieval to one category. Empty means all.
	Category Category

	// History holds earlier turns, oldest first, excluding Query.
	History []ChatMessage

	// UseHistory enables rewriting the question with the history
	// before retrieval.
	UseHistory bool
}

// RelatedDocument is a source document referenced by an answer.
type RelatedDocument struct {
	// RelativePath identifies the document.
	RelativePath string `json:"relative_path" yaml:"relative_path"`

	// URL is a time-limited link to the document, empty if unavailable.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Answer is the rendered response to an AskRequest.
type Answer struct {
	// Text is the completion output shown to the user.
	Text string

	// SearchQuery is the query used for retrieval (the rewritten one when
	// history was used).
	SearchQuery string

	// Context holds the retrieved chunks passed to the completion.
	Context []SearchResult

	// Related lists the unique documents referenced by Context, sorted by path.
	Related []RelatedDocument
}
