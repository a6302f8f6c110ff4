package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driving/web"
)

var (
	serveAddr string
	serveOpen bool
)

// openBrowser is replaced in tests.
var openBrowser = web.OpenBrowser

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long: `Starts the chat web UI and its JSON API.

The page offers a category filter, a "remember chat history" toggle, file
upload and a list of related recipes for each answer. The listen address
defaults to web.addr (":8080"); --open launches the default browser on it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides web.addr)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the web UI in the default browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Web.Addr
	}

	server, err := web.NewServer(&web.Ports{
		Chat:       chatService,
		Ingest:     ingestService,
		Classifier: classifierService,
		Documents:  documentService,
	}, web.Config{Addr: addr, StageDir: stageDir, Links: stageLinks})
	if err != nil {
		return err
	}

	url := web.LocalURL(server.Addr())
	cmd.Printf("Web UI listening on %s\n", url)
	if serveOpen {
		if err := openBrowser(url); err != nil {
			cmd.PrintErrf("Warning: could not open browser: %v\n", err)
		}
	}
	return server.Run(cmd.Context())
}
