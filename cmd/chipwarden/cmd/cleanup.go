package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chipwarden/internal/application/commands"
)

var cleanupKeep int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Prune old versions from the machine share",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		keep := cleanupKeep
		if keep == 0 {
			keep = cfg.Retention.KeepPublished
		}

		cleanup := commands.NewCleanupCommand(publisher, keep)
		removed, err := cleanup.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d old file(s), keeping %d per part\n", removed, keep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().IntVarP(&cleanupKeep, "keep", "k", 0, "versions to keep per part (default from config)")
}
