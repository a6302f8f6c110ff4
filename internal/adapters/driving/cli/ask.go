package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var (
	askCategory string
	askJSON     bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the chef a cooking question",
	Long: `Retrieves the recipe chunks most relevant to the question and asks the
completion model to answer as a friendly chef using only that context.
Related documents are listed with short-lived download links.

Each invocation is a fresh conversation; use 'cortex-chef tui' or the web
UI to chat with history.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCategory, "category", "c", domain.CategoryAll, "restrict context to one category")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Answer      string                   `json:"answer"`
	SearchQuery string                   `json:"search_query"`
	Context     []domain.SearchResult    `json:"context"`
	Related     []domain.RelatedDocument `json:"related"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	category, err := parseCategoryFlag(askCategory)
	if err != nil {
		return err
	}

	answer, err := chatService.Ask(cmd.Context(), domain.AskRequest{
		Query:    args[0],
		Category: category,
	})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, askOutput{
			Answer:      answer.Text,
			SearchQuery: answer.SearchQuery,
			Context:     answer.Context,
			Related:     answer.Related,
		})
	}

	cmd.Println(answer.Text)
	if len(answer.Related) > 0 {
		cmd.Println()
		cmd.Println("Related recipes:")
		for _, d := range answer.Related {
			if d.URL != "" {
				cmd.Printf("  - %s\n    %s\n", d.RelativePath, d.URL)
			} else {
				cmd.Printf("  - %s\n", d.RelativePath)
			}
		}
	}
	return nil
}
