package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"chipwarden/internal/application/commands"
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <project> <part>",
	Short: "Print a part's changelog, newest entry first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cl := commands.NewChangelogCommand(store, args[0], args[1])
		content, err := cl.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Print(content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}
