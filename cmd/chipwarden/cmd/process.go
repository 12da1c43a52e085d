package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chipwarden/internal/adapters/sqlite"
	"chipwarden/internal/application/commands"
)

var processRemoveSource bool

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Archive and publish one posted program",
	Long: `Run the full pipeline for a single G-code file: extract the metadata
header, archive under the next version number, update the changelog,
publish to the share, and prune old published versions.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		index := sqlite.NewIndex()
		if err := index.Open(cfg.IndexPath()); err != nil {
			return err
		}
		defer index.Close()

		proc := commands.NewProcessFileCommand(
			store, publisher, index, nil, logger,
			args[0], cfg.Retention.KeepPublished, processRemoveSource, false,
		)
		result, err := proc.Execute(ctx)
		if err != nil {
			return err
		}

		if result.Skipped {
			fmt.Printf("Skipped: %s\n", result.SkipReason)
			return nil
		}

		fmt.Printf("Archived %s v%d\n", result.Metadata.Part, result.Version)
		fmt.Printf("  archive: %s\n", result.ArchivedPath)
		fmt.Printf("  share:   %s\n", result.PublishedPath)
		if result.Removed > 0 {
			fmt.Printf("  pruned:  %d old file(s)\n", result.Removed)
		}
		for _, w := range result.Changes.Warnings {
			fmt.Printf("  [%s] %s\n", w.Severity, w.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	processCmd.Flags().BoolVar(&processRemoveSource, "remove-source", false, "delete the source file after archiving")
}
