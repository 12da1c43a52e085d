package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chipwarden/internal/adapters/sqlite"
	"chipwarden/internal/adapters/telegram"
	"chipwarden/internal/adapters/watcher"
	"chipwarden/internal/application"
	"chipwarden/internal/application/commands"
)

var watchProcessExisting bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for posted programs and archive them",
	Long: `Run the chip warden: watch the incoming directory for G-code files
from the CAM post processor and run the full pipeline on each one.
Stops cleanly on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		index := sqlite.NewIndex()
		if err := index.Open(cfg.IndexPath()); err != nil {
			return err
		}
		defer index.Close()

		var dispatcher *application.Dispatcher
		if cfg.Telegram.Enabled {
			token, err := telegram.ResolveToken(cfg.ConfigDir())
			if err != nil {
				return err
			}
			notifier, err := telegram.NewNotifier(token, cfg.Telegram.ChatID)
			if err != nil {
				return err
			}

			dispatcher = application.NewDispatcher(notifier, logger)
			dispatcher.Start(ctx)
			dispatcher.Enqueue("Chipwarden is up and watching for programs.", false)

			bot := telegram.NewCommandBot(notifier, store, publisher, index, cfg.Retention.KeepPublished, logger)
			go func() {
				if err := bot.Run(ctx); err != nil {
					logger.Warn("command bot stopped", zap.Error(err))
				}
			}()
		}

		handler := func(ctx context.Context, path string) {
			proc := commands.NewProcessFileCommand(
				store, publisher, index, dispatcher, logger,
				path, cfg.Retention.KeepPublished, cfg.Watcher.RemoveSource,
				cfg.Telegram.NotifyOnPost,
			)
			if _, err := proc.Execute(ctx); err != nil {
				logger.Error("processing failed", zap.String("path", path), zap.Error(err))
			}
		}

		settle := time.Duration(cfg.Watcher.SettleMillis) * time.Millisecond
		w := watcher.New(cfg.Directories.Watch, settle, handler, logger)

		if watchProcessExisting {
			if err := w.ProcessExisting(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}

		return w.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchProcessExisting, "process-existing", true, "process files already in the watch directory at startup")
}
