package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chipwarden/internal/adapters/sqlite"
	"chipwarden/internal/application/commands"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the version index from the archive",
	Long: `Rebuild the SQLite version index by walking the archive directory
tree. The filesystem is the source of truth; the index only speeds up
queries and can be rebuilt at any time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		index := sqlite.NewIndex()
		if err := index.Open(cfg.IndexPath()); err != nil {
			return err
		}
		defer index.Close()

		reindex := commands.NewReindexCommand(store, index, logger)
		result, err := reindex.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Indexed %d version(s) across %d project(s)\n", result.Versions, result.Projects)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
