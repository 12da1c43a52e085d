package commands

import (
	"context"
	"fmt"

	"chipwarden/internal/application"
	"chipwarden/internal/ports"
)

// CleanupCommand runs a retention sweep over the publish share
type CleanupCommand struct {
	publisher ports.Publisher
	Keep      int
}

// NewCleanupCommand creates a new CleanupCommand
func NewCleanupCommand(publisher ports.Publisher, keep int) *CleanupCommand {
	return &CleanupCommand{
		publisher: publisher,
		Keep:      keep,
	}
}

// Validate checks the command parameters
func (c *CleanupCommand) Validate() error {
	if c.Keep < 1 {
		return &application.ValidationError{
			Field:   "keep",
			Message: fmt.Sprintf("retention count must be at least 1, got %d", c.Keep),
		}
	}
	return nil
}

// Execute runs the cleanup command and returns how many files were removed
func (c *CleanupCommand) Execute(ctx context.Context) (int, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return c.publisher.Sweep(c.Keep)
}
