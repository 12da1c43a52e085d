package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chipwarden/internal/application/commands"
)

var latestCmd = &cobra.Command{
	Use:   "latest <project> <part>",
	Short: "Show the newest archived version of a part",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		latest := commands.NewLatestVersionCommand(store, args[0], args[1])
		v, err := latest.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s v%d\n", v.Part, v.Number)
		fmt.Printf("  posted:   %s\n", v.Posted)
		fmt.Printf("  archived: %s\n", v.ArchivedAt.Format("2006-01-02 15:04"))
		fmt.Printf("  path:     %s\n", v.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(latestCmd)
}
