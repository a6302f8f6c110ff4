package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var (
	evalCategory string
	evalOutput   string
)

var evalCmd = &cobra.Command{
	Use:   "eval [question]",
	Short: "Score the chef's answer to a question",
	Long: `Asks the question as 'cortex-chef ask' does, then has the completion model
act as a judge and score the answer from 0 to 1 on three measures:

  groundedness       how much of the answer the retrieved recipes support
  answer_relevance   how well the answer addresses the question
  context_relevance  the mean relevance of each retrieved chunk

The judge prompts are eval_*.txt in the prompts directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVarP(&evalCategory, "category", "c", domain.CategoryAll, "restrict context to one category")
	evalCmd.Flags().StringVarP(&evalOutput, "output", "o", outputTable, "output format: table, json or yaml")
	rootCmd.AddCommand(evalCmd)
}

type evalOutputDoc struct {
	Question string               `json:"question" yaml:"question"`
	Answer   string               `json:"answer" yaml:"answer"`
	Sources  []string             `json:"sources" yaml:"sources"`
	Scores   []domain.MetricScore `json:"scores" yaml:"scores"`
}

func runEval(cmd *cobra.Command, args []string) error {
	if evalService == nil {
		return errors.New("eval service not configured")
	}
	if err := validateOutput(evalOutput); err != nil {
		return err
	}
	category, err := parseCategoryFlag(evalCategory)
	if err != nil {
		return err
	}

	eval, err := evalService.Evaluate(cmd.Context(), domain.AskRequest{
		Query:    args[0],
		Category: category,
	})
	if err != nil {
		return fmt.Errorf("eval failed: %w", err)
	}

	doc := evalOutputDoc{
		Question: eval.Question,
		Answer:   eval.Answer.Text,
		Sources:  make([]string, 0, len(eval.Answer.Related)),
		Scores:   eval.Scores,
	}
	for _, d := range eval.Answer.Related {
		doc.Sources = append(doc.Sources, d.RelativePath)
	}

	switch evalOutput {
	case outputJSON:
		return printJSON(cmd, doc)
	case outputYAML:
		return printYAML(cmd, doc)
	}

	cmd.Println(doc.Answer)
	cmd.Println()
	rows := make([][]string, 0, len(doc.Scores))
	for _, s := range doc.Scores {
		rows = append(rows, []string{string(s.Metric), fmt.Sprintf("%.2f", s.Score), truncate(s.Reasons, 60)})
	}
	cmd.Println(renderTable([]string{"METRIC", "SCORE", "REASONS"}, rows))
	return nil
}
