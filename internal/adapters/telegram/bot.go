package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"chipwarden/internal/application/commands"
	"chipwarden/internal/ports"
)

const helpText = `*chipwarden commands*

/status - archive and share overview
/latest - newest files on the share
/latest <part> - newest archived version of a part
/cleanup - run a retention sweep now
/help - this message`

// CommandBot answers operator commands in the configured chat. Messages from
// any other chat are ignored.
type CommandBot struct {
	bot       *tgbotapi.BotAPI
	chatID    int64
	archive   ports.Archive
	publisher ports.Publisher
	index     ports.VersionIndex
	keep      int
	logger    *zap.Logger
}

func NewCommandBot(notifier *Notifier, archive ports.Archive, publisher ports.Publisher, index ports.VersionIndex, keep int, logger *zap.Logger) *CommandBot {
	return &CommandBot{
		bot:       notifier.Bot(),
		chatID:    notifier.chatID,
		archive:   archive,
		publisher: publisher,
		index:     index,
		keep:      keep,
		logger:    logger,
	}
}

// Run polls for updates until ctx is cancelled.
func (b *CommandBot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.bot.GetUpdatesChan(cfg)

	b.logger.Info("telegram command bot listening", zap.Int64("chat_id", b.chatID))

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if update.Message.Chat.ID != b.chatID {
				b.logger.Warn("ignoring command from unknown chat",
					zap.Int64("chat_id", update.Message.Chat.ID))
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *CommandBot) handle(ctx context.Context, msg *tgbotapi.Message) {
	var reply string
	switch msg.Command() {
	case "status":
		reply = b.status()
	case "latest":
		reply = b.latest(strings.TrimSpace(msg.CommandArguments()))
	case "cleanup":
		reply = b.cleanup(ctx)
	case "help", "start":
		reply = helpText
	default:
		reply = "Unknown command. Try /help."
	}

	out := tgbotapi.NewMessage(b.chatID, reply)
	out.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.bot.Send(out); err != nil {
		b.logger.Warn("failed to send reply", zap.Error(err))
	}
}

func (b *CommandBot) status() string {
	projects, err := b.archive.Projects()
	if err != nil {
		return fmt.Sprintf("Status unavailable: %v", err)
	}

	parts := 0
	versions := 0
	for _, project := range projects {
		names, err := b.archive.Parts(project)
		if err != nil {
			continue
		}
		parts += len(names)
		for _, part := range names {
			vs, err := b.archive.Versions(project, part)
			if err != nil {
				continue
			}
			versions += len(vs)
		}
	}

	published, err := b.publisher.Files()
	if err != nil {
		return fmt.Sprintf("Status unavailable: %v", err)
	}

	var s strings.Builder
	s.WriteString("*Archive status*\n\n")
	fmt.Fprintf(&s, "Projects: %d\n", len(projects))
	fmt.Fprintf(&s, "Parts: %d\n", parts)
	fmt.Fprintf(&s, "Versions: %d\n", versions)
	fmt.Fprintf(&s, "On the share: %d file(s)\n", len(published))
	return s.String()
}

func (b *CommandBot) latest(part string) string {
	if part != "" {
		return b.latestVersion(part)
	}

	files, err := b.publisher.Files()
	if err != nil {
		return fmt.Sprintf("Share unavailable: %v", err)
	}
	if len(files) == 0 {
		return "The share is empty."
	}

	var s strings.Builder
	s.WriteString("*Newest on the share*\n\n")
	limit := 10
	if len(files) < limit {
		limit = len(files)
	}
	for _, name := range files[:limit] {
		fmt.Fprintf(&s, "- %s\n", name)
	}
	return s.String()
}

func (b *CommandBot) latestVersion(part string) string {
	v, err := b.index.Latest(part)
	if err != nil {
		return fmt.Sprintf("Lookup failed: %v", err)
	}
	if v == nil {
		return fmt.Sprintf("No archived versions for %s.", part)
	}

	var s strings.Builder
	fmt.Fprintf(&s, "*%s v%d*\n\n", v.Part, v.Number)
	fmt.Fprintf(&s, "Project: %s\n", v.Project)
	fmt.Fprintf(&s, "Posted: %s\n", v.Posted)
	fmt.Fprintf(&s, "Machine: %s\n", v.Machine)
	fmt.Fprintf(&s, "Setup: %s\n", v.Setup)
	fmt.Fprintf(&s, "Tools: %d\n", v.ToolCount)
	return s.String()
}

func (b *CommandBot) cleanup(ctx context.Context) string {
	cmd := commands.NewCleanupCommand(b.publisher, b.keep)
	removed, err := cmd.Execute(ctx)
	if err != nil {
		return fmt.Sprintf("Cleanup failed: %v", err)
	}
	return fmt.Sprintf("Cleanup removed %d old file(s).", removed)
}
