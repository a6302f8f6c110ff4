package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchCategory string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search recipe chunks",
	Long: `Finds the chunks most similar to the query, optionally restricted to one
category. The snowflake backend uses the Cortex Search service; the local
backend ranks by embedding similarity when an embedding provider is set and
by term matching otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultNumChunks, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", domain.CategoryAll, "restrict to one category")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if chatService == nil {
		return errors.New("chat service not configured")
	}
	category, err := parseCategoryFlag(searchCategory)
	if err != nil {
		return err
	}

	results, err := chatService.Search(cmd.Context(), query, domain.SearchOptions{
		Limit:    searchLimit,
		Category: category,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}

	outputSearchTable(cmd, results)
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] path (score)
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, results[i].RelativePath, results[i].Score)
		if results[i].Category != "" {
			cmd.Printf("      Category: %s\n", results[i].Category)
		}
		cmd.Printf("      %s\n", truncate(results[i].Chunk, 160))
		cmd.Println()
	}
}
