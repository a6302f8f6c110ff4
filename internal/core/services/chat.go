package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driven"
	"github.com/custodia-labs/cortex-chef/internal/core/ports/driving"
	"github.com/custodia-labs/cortex-chef/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers questions using retrieved chunks as context.
// It keeps no state between calls; history travels with each request.
type ChatService struct {
	search  driven.SearchEngine
	llm     driven.LLMService
	stage   driven.Stage
	prompts driven.PromptStore
	cfg     domain.ChatSettings
}

// NewChatService creates a new chat service.
// Zero values in cfg fall back to the defaults.
func NewChatService(
	search driven.SearchEngine,
	llm driven.LLMService,
	stage driven.Stage,
	prompts driven.PromptStore,
	cfg domain.ChatSettings,
) *ChatService {
	if cfg.Model == "" {
		cfg.Model = domain.DefaultCompletionModel
	}
	if cfg.NumChunks <= 0 {
		cfg.NumChunks = domain.DefaultNumChunks
	}
	if cfg.HistoryWindow < 1 {
		cfg.HistoryWindow = domain.DefaultHistoryWindow
	}
	return &ChatService{
		search:  search,
		llm:     llm,
		stage:   stage,
		prompts: prompts,
		cfg:     cfg,
	}
}

// Search returns the chunks most similar to the query.
func (s *ChatService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if s.search == nil {
		return nil, domain.ErrSearchUnavailable
	}
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.NumChunks
	}
	logger.Debug("Search %q (limit=%d, category=%s)", query, opts.Limit, opts.Category.Label())

	results, err := s.search.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// Ask answers one question.
func (s *ChatService) Ask(ctx context.Context, req domain.AskRequest) (*domain.Answer, error) {
	logger.Section("Ask")

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if req.Category != "" && !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, req.Category)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	var history []domain.ChatMessage
	if req.UseHistory {
		history = recentHistory(req.History, s.cfg.HistoryWindow-1)
	}

	searchQuery := query
	if len(history) > 0 {
		rewritten, err := s.summariseQuestion(ctx, history, query)
		if err != nil {
			return nil, err
		}
		searchQuery = rewritten
	}
	logger.Debug("Search query: %q", searchQuery)

	results, err := s.Search(ctx, searchQuery, domain.SearchOptions{
		Limit:    s.cfg.NumChunks,
		Category: req.Category,
	})
	if err != nil {
		return nil, err
	}

	template, err := s.prompts.Load(driven.PromptChef)
	if err != nil {
		return nil, fmt.Errorf("load chef prompt: %w", err)
	}
	prompt := fmt.Sprintf(template,
		req.Category.Label(),
		formatHistory(history),
		formatContext(results),
		query,
	)

	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Model: s.cfg.Model})
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	return &domain.Answer{
		Text:        strings.TrimSpace(text),
		SearchQuery: searchQuery,
		Context:     results,
		Related:     s.related(ctx, results),
	}, nil
}

// summariseQuestion rewrites a follow-up question into a standalone query.
func (s *ChatService) summariseQuestion(
	ctx context.Context, history []domain.ChatMessage, query string,
) (string, error) {
	template, err := s.prompts.Load(driven.PromptHistorySummary)
	if err != nil {
		return "", fmt.Errorf("load history prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, formatHistory(history), query)

	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{Model: s.cfg.Model})
	if err != nil {
		return "", fmt.Errorf("summarise history: %w", err)
	}
	out = strings.TrimSpace(strings.ReplaceAll(out, "'", ""))
	if out == "" {
		return query, nil
	}
	return out, nil
}

// related returns the unique documents in results, sorted by path, with links.
// A failed link is logged and left empty.
func (s *ChatService) related(ctx context.Context, results []domain.SearchResult) []domain.RelatedDocument {
	seen := make(map[string]bool)
	var paths []string
	for _, r := range results {
		if r.RelativePath == "" || seen[r.RelativePath] {
			continue
		}
		seen[r.RelativePath] = true
		paths = append(paths, r.RelativePath)
	}
	sort.Strings(paths)

	docs := make([]domain.RelatedDocument, 0, len(paths))
	for _, p := range paths {
		doc := domain.RelatedDocument{RelativePath: p}
		if s.stage != nil {
			url, err := s.stage.ScopedURL(ctx, p, LinkTTL)
			if err != nil {
				logger.Warn("No link for %s: %v", p, err)
			} else {
				doc.URL = url
			}
		}
		docs = append(docs, doc)
	}
	return docs
}

// recentHistory returns at most n of the newest messages, oldest first.
func recentHistory(history []domain.ChatMessage, n int) []domain.ChatMessage {
	if n <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}

func formatHistory(history []domain.ChatMessage) string {
	var b strings.Builder
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, strings.TrimSpace(m.Content))
	}
	return strings.TrimSpace(b.String())
}

func formatContext(results []domain.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s", i+1, r.RelativePath)
		if r.Category != "" {
			fmt.Fprintf(&b, " (%s)", r.Category)
		}
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(r.Chunk))
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
