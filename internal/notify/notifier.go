package notify

import (
	"context"
	"log/slog"

	"preminder/internal/directory"
	"preminder/internal/slack"
)

// Notifier fans a message out to a list of assignees. Each target is handled
// independently: an unknown identity is skipped and a delivery failure is
// logged without affecting the remaining targets. It runs strictly after the
// state change has been committed, so a failed send is never rolled back.
type Notifier struct {
	directory directory.Resolver
	chat      slack.Client
	logger    *slog.Logger
}

// NewNotifier creates a Notifier bound to an identity resolver and a chat
// client.
func NewNotifier(resolver directory.Resolver, chat slack.Client, logger *slog.Logger) *Notifier {
	return &Notifier{directory: resolver, chat: chat, logger: logger}
}

// NotifyAll sends the message to every resolvable assignee in targets.
func (n *Notifier) NotifyAll(ctx context.Context, targets []string, message string) {
	for _, login := range targets {
		handle, ok := n.directory.Resolve(login)
		if !ok {
			n.logger.Debug("no chat identity for assignee, skipping", "login", login)
			continue
		}
		if err := n.chat.Send(ctx, "@"+handle, message); err != nil {
			n.logger.Error("failed to deliver notification", "login", login, "error", err)
		}
	}
}
