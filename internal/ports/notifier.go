package ports

import "context"

// Notifier defines the outbound messaging collaborator. Delivery is
// best-effort: the pipeline never rolls back archival work over a failed
// notification.
type Notifier interface {
	// Send delivers a message. When formatted is true the text carries
	// lightweight markup (Markdown); plain-text delivery is an acceptable
	// substitute.
	Send(ctx context.Context, text string, formatted bool) error
}
