package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chipwarden/internal/adapters/archive"
	"chipwarden/internal/adapters/gitrepo"
	"chipwarden/internal/adapters/publish"
	"chipwarden/internal/config"
	"chipwarden/internal/logging"
	"chipwarden/internal/ports"
)

var (
	configPath string

	cfg       *config.Config
	logger    *zap.Logger
	store     ports.Archive
	publisher ports.Publisher
)

var rootCmd = &cobra.Command{
	Use:   "chipwarden",
	Short: "Versioned archive for CNC programs",
	Long: `chipwarden watches the CAM post-processor output directory for new
G-code programs, extracts the metadata header the post embeds in each
file, archives every program under a monotonic version number, and
publishes the newest versions to the machine share.

Each archival also updates the part changelog and, when enabled, commits
to git and notifies the shop chat.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return initAdapters()
	},
}

func initAdapters() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Logging.Level, cfg.Directories.Logs)
	if err != nil {
		return err
	}

	var repo ports.Repository
	if cfg.Git.AutoCommit {
		repo = gitrepo.New()
	}

	store, err = archive.NewStore(cfg.Directories.Archive, repo, cfg.Git.AutoCommit, logger)
	if err != nil {
		return err
	}

	publisher, err = publish.NewPublisher(cfg.Directories.Publish, logger)
	if err != nil {
		return err
	}

	return nil
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "path to the config file")
}
