package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	documentsOutput string
	documentsOpen   bool
)

var documentsCmd = &cobra.Command{
	Use:   "documents [path]",
	Short: "List ingested documents or show one document's chunks",
	Long: `Without arguments, lists every ingested document with its size, chunk
count and category. A document whose chunks disagree on the category is
flagged as inconsistent.

With a relative path, shows the document's chunks and a short-lived link.
--open launches the link in the default browser.`,
	Aliases: []string{"docs"},
	Args:    cobra.MaximumNArgs(1),
	RunE:    runDocuments,
}

func init() {
	documentsCmd.Flags().StringVarP(&documentsOutput, "output", "o", outputTable, "output format: table, json or yaml")
	documentsCmd.Flags().BoolVar(&documentsOpen, "open", false, "open the document link in the default browser")
	rootCmd.AddCommand(documentsCmd)
}

func runDocuments(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if err := validateOutput(documentsOutput); err != nil {
		return err
	}
	if len(args) == 1 {
		return showDocument(cmd, args[0])
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	switch documentsOutput {
	case outputJSON:
		return printJSON(cmd, docs)
	case outputYAML:
		return printYAML(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		category := d.Category.String()
		if category == "" {
			category = "(unclassified)"
		}
		if !d.Consistent {
			category += " (inconsistent)"
		}
		rows[i] = []string{d.RelativePath, strconv.FormatInt(d.Size, 10), strconv.Itoa(d.Chunks), category}
	}
	cmd.Println(renderTable([]string{"Document", "Size", "Chunks", "Category"}, rows))
	return nil
}

func showDocument(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	chunks, err := documentService.Chunks(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	link, err := documentService.Link(ctx, path)
	if err != nil {
		cmd.PrintErrf("Warning: no link for %s: %v\n", path, err)
	}

	if documentsOpen && link != "" {
		if err := openBrowser(link); err != nil {
			cmd.PrintErrf("Warning: could not open browser: %v\n", err)
		}
	}

	switch documentsOutput {
	case outputJSON:
		return printJSON(cmd, map[string]any{"relative_path": path, "url": link, "chunks": chunks})
	case outputYAML:
		return printYAML(cmd, map[string]any{"relative_path": path, "url": link, "chunks": chunks})
	}

	cmd.Printf("Document: %s\n", path)
	if link != "" {
		cmd.Printf("Link:     %s\n", link)
	}
	cmd.Printf("Chunks:   %d\n", len(chunks))
	cmd.Println()
	for i, c := range chunks {
		category := "(unclassified)"
		if c.Category != nil {
			category = c.Category.String()
		}
		cmd.Printf("  [%d] %s\n", i+1, category)
		cmd.Printf("      %s\n", truncate(c.Chunk, 160))
	}
	return nil
}
