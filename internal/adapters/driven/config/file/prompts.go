package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptClassify: `Given the name of the recipe file between <file> and </file>, determine which category it belongs to.
Answer with exactly one word from this list and nothing else: Snacks, Salads, MainCourse, Juices, Desserts, Appetizers.
<file>%s</file>`,

	driven.PromptHistorySummary: `Based on the chat history below and the question, generate a query that extends the question
with the chat history provided. The query should be in natural language.
Answer with only the query. Do not add any explanation.
<chat_history>
%[1]s
</chat_history>
<question>
%[2]s
</question>`,

	driven.PromptChef: `I am Ali, a friendly and witty chef who specializes in %[1]s recipes! I love helping people cook and finding the perfect recipes from our collection.

Conversation Flow:
1. When suggesting recipes:
    - Prioritize recipes that make use of all ingredients
    - First list all matching recipes as numbered options
    - Ask which recipe they'd like to know more about
2. When user selects a recipe, provide full details in this format:
    Recipe Name:
    Quantities (for 1 person):
    Cooking Time:
    Steps:
    Cuisine:
    General Diet Type:

<chat_history>
%[2]s
</chat_history>

<context>
%[3]s
</context>

User Query: %[4]s
Current Category: %[1]s

Response (as Ali, friendly and category-aware):`,

	driven.PromptGroundedness: `You are a strict judge checking whether an answer is supported by source documents.
Rate from 0 to 3 how much of the ANSWER is backed by the SOURCE. 0 means no statement is supported, 3 means every statement is supported.
Reply in exactly this format:
Score: <0-3>
Reasons: <one or two sentences quoting the supporting evidence>
<source>
%[1]s
</source>
<answer>
%[2]s
</answer>`,

	driven.PromptAnswerRelevance: `You are a strict judge checking whether an answer addresses a cooking question.
Rate from 0 to 3 how relevant the ANSWER is to the QUESTION. 0 means unrelated, 3 means it answers every part of the question.
Reply in exactly this format:
Score: <0-3>
Reasons: <one or two sentences>
<question>
%[1]s
</question>
<answer>
%[2]s
</answer>`,

	driven.PromptContextRelevance: `You are a strict judge checking whether a recipe excerpt helps answer a question.
Rate from 0 to 3 how relevant the CONTEXT is to the QUESTION. 0 means unrelated, 3 means it holds what is needed to answer.
Reply in exactly this format:
Score: <0-3>
Reasons: <one or two sentences>
<question>
%[1]s
</question>
<context>
%[2]s
</context>`,
}

// DefaultPrompt returns the embedded default for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.cortex-chef/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".cortex-chef", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# cortex-chef prompts

Prompts used by the classifier and by the chef assistant.

## Files

- ` + "`classify.txt`" + ` - Labels a recipe file with one of the six categories
- ` + "`chef.txt`" + ` - Answers questions using the retrieved recipe chunks
- ` + "`history_summary.txt`" + ` - Turns a follow-up question into a search query
- ` + "`eval_*.txt`" + ` - Judge prompts used by ` + "`cortex-chef eval`" + ` to score answers

## Format Placeholders

- ` + "`classify.txt`" + ` needs exactly one ` + "`%s`" + `, replaced by the file name.
- ` + "`chef.txt`" + ` uses ` + "`%[1]s`" + ` category, ` + "`%[2]s`" + ` chat history,
  ` + "`%[3]s`" + ` context and ` + "`%[4]s`" + ` question.
- ` + "`history_summary.txt`" + ` uses ` + "`%[1]s`" + ` chat history and ` + "`%[2]s`" + ` question.
- The ` + "`eval_*.txt`" + ` prompts take two values each (see the file) and must ask
  for a "Score: 0-3" line.

Changes take effect on the next command or after restarting the server.
`
	return os.WriteFile(path, []byte(content), 0600)
}
