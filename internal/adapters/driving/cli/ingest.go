package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var ingestReload bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Parse and chunk staged documents",
	Long: `Parses every staged document, splits the text into overlapping chunks
and inserts them into the chunk table with their relative path, size and
file links. Categories stay empty until 'cortex-chef classify' runs.

Ingesting twice appends duplicate chunks; use --reload to clear the chunk
table first.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReload, "reload", false, "delete existing chunks before ingesting")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	return runIngestWith(cmd.Context(), cmd, domain.IngestOptions{Reload: ingestReload})
}

func runIngestWith(ctx context.Context, cmd *cobra.Command, opts domain.IngestOptions) error {
	report, err := ingestService.Ingest(ctx, opts)
	if err != nil {
		if errors.Is(err, domain.ErrNoStagedFiles) {
			return errors.New("no staged files; run 'cortex-chef upload' first")
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d chunks from %d files.\n", report.Chunks, report.Files)
	return nil
}
