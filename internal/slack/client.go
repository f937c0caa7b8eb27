// Package slack wraps the Slack Web API behind the narrow interface the
// notifier needs.
package slack

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
)

// Client defines the chat operations used to deliver notifications.
type Client interface {
	// Send posts a message to a recipient, which may be a channel name or a
	// user handle in the "@name" form.
	Send(ctx context.Context, recipient, text string) error
}

type slackClient struct {
	api      *slack.Client
	username string
	logger   *slog.Logger
}

// NewClient creates a Slack client authenticated with a bot token. The
// username is shown as the sender of outbound messages.
func NewClient(token, username string, logger *slog.Logger) Client {
	return &slackClient{
		api:      slack.New(token),
		username: username,
		logger:   logger,
	}
}

func (c *slackClient) Send(ctx context.Context, recipient, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, recipient,
		slack.MsgOptionText(text, false),
		slack.MsgOptionUsername(c.username),
		slack.MsgOptionEnableLinkUnfurl(),
	)
	if err != nil {
		c.logger.Error("slack message delivery failed",
			"recipient", recipient,
			"error", err,
			"detail", DescribeError(err),
		)
		return err
	}
	return nil
}
