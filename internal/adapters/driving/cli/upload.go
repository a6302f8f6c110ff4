package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/cortex-chef/internal/adapters/driven/files"
	"github.com/custodia-labs/cortex-chef/internal/core/domain"
)

var (
	uploadInclude []string
	uploadIngest  bool
	uploadWatch   bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload [paths...]",
	Short: "Upload recipe documents to the stage",
	Long: `Uploads local files to the stage. Directories are walked recursively and
files are selected with the include patterns (ingest.include, default
"**/*.pdf"). Files with the same name overwrite earlier uploads.

With --ingest the stage is ingested into the chunk table afterwards.
With --watch the command keeps running and uploads files dropped into the
given directory as they appear.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringSliceVar(&uploadInclude, "include", nil,
		"doublestar include patterns (overrides ingest.include)")
	uploadCmd.Flags().BoolVar(&uploadIngest, "ingest", false, "ingest the stage after uploading")
	uploadCmd.Flags().BoolVar(&uploadWatch, "watch", false, "keep watching a directory for new files")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if uploadWatch && len(args) != 1 {
		return fmt.Errorf("%w: --watch takes exactly one directory", domain.ErrInvalidInput)
	}

	ctx := cmd.Context()
	if err := uploadAndIngest(ctx, cmd, args); err != nil {
		return err
	}
	if !uploadWatch {
		return nil
	}
	return watchAndUpload(ctx, cmd, args[0])
}

func uploadAndIngest(ctx context.Context, cmd *cobra.Command, paths []string) error {
	bar := newUploadBar(cmd.ErrOrStderr())
	staged, err := ingestService.Upload(ctx, paths, func(f domain.StagedFile) {
		bar.Describe("[cyan]Uploading[reset] " + f.RelativePath)
		_ = bar.Add(1)
	})
	_ = bar.Finish()
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	cmd.Printf("Uploaded %d files.\n", len(staged))

	if !uploadIngest {
		return nil
	}
	return runIngestWith(ctx, cmd, domain.IngestOptions{})
}

func newUploadBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Uploading[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// watchAndUpload uploads each settled file dropped into dir until ctx ends.
func watchAndUpload(ctx context.Context, cmd *cobra.Command, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	include, err := watchPatterns()
	if err != nil {
		return err
	}
	watcher := files.NewWatcher(files.NewFinder(include), files.DefaultSettle)
	events, err := watcher.Watch(ctx, dir)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for new files (Ctrl+C to stop)...\n", dir)
	for path := range events {
		if err := uploadAndIngest(ctx, cmd, []string{path}); err != nil {
			// A bad file must not stop the watch.
			cmd.PrintErrf("Error: %v\n", err)
		}
	}
	return nil
}

func watchPatterns() ([]string, error) {
	if len(uploadInclude) > 0 {
		return uploadInclude, nil
	}
	if settingsService == nil {
		return domain.DefaultAppSettings().Ingest.Include, nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.Ingest.Include, nil
}
