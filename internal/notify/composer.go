// Package notify builds notification messages and delivers them to chat.
package notify

import (
	"fmt"

	"preminder/internal/core"
)

// Compose renders the immediate notification for a reconciled event. The
// <url|title> pair renders as a hyperlink in Slack.
func Compose(event *core.ReviewEvent) string {
	return fmt.Sprintf("`%s` %s <%s|%s> by `%s` with state `%s` to you",
		event.Actor, event.Action, event.URL, event.Title, event.Author, event.State)
}

// ComposeReminder renders the digest reminder for one review. The review key
// already carries the hyperlink form, so it is referenced directly.
func ComposeReminder(reviewKey string) string {
	return fmt.Sprintf("Reminder you are assigned to %s", reviewKey)
}
