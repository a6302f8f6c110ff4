package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var classifyOutput string

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Label every ingested document with a recipe category",
	Long: `Asks the completion model to place each ingested document in one of six
categories (Snacks, Salads, MainCourse, Juices, Desserts, Appetizers) based
on its file name, then copies the label onto every chunk of the document.

If any label is not one of the six categories nothing is written and the
rejected labels are listed.`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", outputTable, "output format: table, json or yaml")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	if classifierService == nil {
		return errors.New("classifier service not configured")
	}
	if err := validateOutput(classifyOutput); err != nil {
		return err
	}

	report, err := classifierService.Classify(cmd.Context())
	if err != nil {
		if report != nil && errors.Is(err, domain.ErrUnknownCategory) {
			cmd.Println("Rejected labels:")
			for _, r := range report.Rejected {
				cmd.Printf("  %s: %q\n", r.RelativePath, r.Label)
			}
		}
		return fmt.Errorf("classify failed: %w", err)
	}

	switch classifyOutput {
	case outputJSON:
		return printJSON(cmd, report)
	case outputYAML:
		return printYAML(cmd, report)
	}

	if report.Documents == 0 {
		cmd.Println("No documents to classify.")
		return nil
	}
	rows := make([][]string, len(report.Assignments))
	for i, a := range report.Assignments {
		rows[i] = []string{a.RelativePath, a.Category.Label()}
	}
	cmd.Println(renderTable([]string{"Document", "Category"}, rows))
	cmd.Printf("Updated %d chunks across %d documents.\n", report.RowsUpdated, report.Documents)
	return nil
}
