package core

import (
	"testing"

	"github.com/google/go-github/v73/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prEvent(action string) *github.PullRequestEvent {
	return &github.PullRequestEvent{
		Action: github.Ptr(action),
		PullRequest: &github.PullRequest{
			User:    &github.User{Login: github.Ptr("alice")},
			HTMLURL: github.Ptr("https://github.com/acme/widgets/pull/7"),
			Title:   github.Ptr("Add widget cache"),
			State:   github.Ptr("open"),
		},
		Assignee: &github.User{Login: github.Ptr("bob")},
		Sender:   &github.User{Login: github.Ptr("carol")},
	}
}

func TestEventFromPullRequest(t *testing.T) {
	t.Run("assigned carries the single event assignee", func(t *testing.T) {
		event, err := EventFromPullRequest(prEvent("assigned"))
		require.NoError(t, err)

		assert.Equal(t, ActionAssigned, event.Action)
		assert.Equal(t, "<https://github.com/acme/widgets/pull/7|Add widget cache>", event.ReviewKey)
		assert.Equal(t, "carol", event.Actor)
		assert.Equal(t, "alice", event.Author)
		assert.Equal(t, "open", event.State)
		assert.Equal(t, []string{"bob"}, event.Assignees)
	})

	t.Run("reopened carries the full assignee list", func(t *testing.T) {
		raw := prEvent("reopened")
		raw.PullRequest.Assignees = []*github.User{
			{Login: github.Ptr("bob")},
			{Login: github.Ptr("dave")},
		}

		event, err := EventFromPullRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "dave"}, event.Assignees)
	})

	t.Run("reopened with no assignees is still valid", func(t *testing.T) {
		raw := prEvent("reopened")
		raw.Assignee = nil

		event, err := EventFromPullRequest(raw)
		require.NoError(t, err)
		assert.Empty(t, event.Assignees)
	})

	t.Run("closed ignores the assignee field", func(t *testing.T) {
		raw := prEvent("closed")
		raw.Assignee = nil
		raw.PullRequest.State = github.Ptr("closed")

		event, err := EventFromPullRequest(raw)
		require.NoError(t, err)
		assert.Equal(t, ActionClosed, event.Action)
		assert.Empty(t, event.Assignees)
	})

	t.Run("untracked actions are rejected", func(t *testing.T) {
		for _, action := range []string{"labeled", "synchronize", "opened", ""} {
			_, err := EventFromPullRequest(prEvent(action))
			assert.Error(t, err, "action %q", action)
		}
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(e *github.PullRequestEvent)
		}{
			{"no pull request", func(e *github.PullRequestEvent) { e.PullRequest = nil }},
			{"no author", func(e *github.PullRequestEvent) { e.PullRequest.User = nil }},
			{"no url", func(e *github.PullRequestEvent) { e.PullRequest.HTMLURL = nil }},
			{"no title", func(e *github.PullRequestEvent) { e.PullRequest.Title = nil }},
			{"no state", func(e *github.PullRequestEvent) { e.PullRequest.State = nil }},
			{"no sender", func(e *github.PullRequestEvent) { e.Sender = nil }},
			{"no assignee on assigned", func(e *github.PullRequestEvent) { e.Assignee = nil }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				raw := prEvent("assigned")
				tt.mutate(raw)
				_, err := EventFromPullRequest(raw)
				assert.Error(t, err)
			})
		}
	})
}

func TestReviewKeyFor(t *testing.T) {
	key := ReviewKeyFor("https://example.com/pr/1", "Fix things")
	assert.Equal(t, "<https://example.com/pr/1|Fix things>", key)
}
