package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
const (
	// PromptClassify asks for the category of one document.
	// The template expects a single %s placeholder for the relative path.
	PromptClassify = "classify"

	// PromptChef is the answering prompt. It uses indexed verbs:
	// %[1]s category, %[2]s chat history, %[3]s context, %[4]s question.
	PromptChef = "chef"

	// PromptHistorySummary turns a chat history and a follow-up question
	// into a standalone search query. %[1]s history, %[2]s question.
	PromptHistorySummary = "history_summary"

	// PromptGroundedness rates how far the answer is supported by the
	// retrieved chunks. %[1]s context, %[2]s answer.
	PromptGroundedness = "eval_groundedness"

	// PromptAnswerRelevance rates how well the answer addresses the
	// question. %[1]s question, %[2]s answer.
	PromptAnswerRelevance = "eval_answer_relevance"

	// PromptContextRelevance rates one retrieved chunk against the
	// question. %[1]s question, %[2]s chunk.
	PromptContextRelevance = "eval_context_relevance"
)
