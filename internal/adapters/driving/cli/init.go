package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the stage, tables and search service",
	Long: `Creates (or re-creates) the objects cortex-chef needs:

  - the upload stage for recipe documents
  - the chunk table and the category table
  - the Cortex Search service over chunks (snowflake backend)

Existing tables are replaced, so any ingested chunks are lost. Staged files
are kept.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	if schemaService == nil {
		return errors.New("schema service not configured")
	}

	if err := schemaService.Initialize(cmd.Context()); err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	cmd.Println("Schema initialised.")
	return nil
}
