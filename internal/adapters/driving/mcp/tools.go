package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

// SearchInput is the input schema for the search_recipes tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"ingredients or dish to look for"`
	Category string `json:"category,omitempty" jsonschema:"one of Snacks, Salads, MainCourse, Juices, Desserts, Appetizers or ALL"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 3)"`
}

// SearchOutput is the output schema for the search_recipes tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is one retrieved chunk.
type SearchResultOutput struct {
	RelativePath string  `json:"relative_path"`
	Category     string  `json:"category,omitempty"`
	Chunk        string  `json:"chunk"`
	Score        float64 `json:"score"`
}

// AskInput is the input schema for the ask_chef tool.
type AskInput struct {
	Question string               `json:"question" jsonschema:"the question for the chef"`
	Category string               `json:"category,omitempty" jsonschema:"restrict recipes to one category"`
	History  []domain.ChatMessage `json:"history,omitempty" jsonschema:"earlier messages of the conversation, oldest first"`
}

// AskOutput is the output schema for the ask_chef tool.
type AskOutput struct {
	Answer  string            `json:"answer"`
	Related []RelatedDocument `json:"related"`
}

// RelatedDocument is a recipe the answer drew on.
type RelatedDocument struct {
	RelativePath string `json:"relative_path"`
	URL          string `json:"url,omitempty"`
}

// ListInput is the (empty) input schema for list_documents.
type ListInput struct{}

// ListOutput is the output schema for list_documents.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
}

// DocumentOutput summarises one ingested recipe.
type DocumentOutput struct {
	RelativePath string `json:"relative_path"`
	Category     string `json:"category,omitempty"`
	Chunks       int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_recipes",
		Description: "Find recipe passages similar to a query, optionally within one food category",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_chef",
		Description: "Ask Ali the chef a question answered from the recipe collection",
	}, s.handleAsk)

	if s.ports.Documents != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List ingested recipe documents with their categories",
		}, s.handleList)
	}
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	category, err := domain.ParseCategoryFilter(input.Category)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	results, err := s.ports.Chat.Search(ctx, input.Query, domain.SearchOptions{
		Limit:    input.Limit,
		Category: category,
	})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = SearchResultOutput{
			RelativePath: r.RelativePath,
			Category:     string(r.Category),
			Chunk:        r.Chunk,
			Score:        r.Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	category, err := domain.ParseCategoryFilter(input.Category)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Chat.Ask(ctx, domain.AskRequest{
		Query:      input.Question,
		Category:   category,
		History:    input.History,
		UseHistory: len(input.History) > 0,
	})
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("asking chef: %w", err)
	}

	output := AskOutput{
		Answer:  answer.Text,
		Related: make([]RelatedDocument, len(answer.Related)),
	}
	for i, d := range answer.Related {
		output.Related[i] = RelatedDocument{RelativePath: d.RelativePath, URL: d.URL}
	}
	return nil, output, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}
	return nil, ListOutput{Documents: documentOutputs(docs)}, nil
}

func documentOutputs(docs []domain.DocumentSummary) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i, d := range docs {
		out[i] = DocumentOutput{
			RelativePath: d.RelativePath,
			Category:     string(d.Category),
			Chunks:       d.Chunks,
		}
	}
	return out
}
