// Package core defines the data structures and interfaces shared by the
// webhook pipeline, the reconciliation engine, and the reminder sweep.
package core

import (
	"fmt"

	"github.com/google/go-github/v73/github"
)

// ReviewAction is the subset of pull-request lifecycle actions this service
// reacts to. Anything else is dropped before reaching the engine.
type ReviewAction string

const (
	ActionAssigned   ReviewAction = "assigned"
	ActionUnassigned ReviewAction = "unassigned"
	ActionClosed     ReviewAction = "closed"
	ActionReopened   ReviewAction = "reopened"
)

// ReviewEvent is the normalized, internal view of one pull-request lifecycle
// occurrence. It is constructed once per inbound payload and never mutated.
type ReviewEvent struct {
	Action    ReviewAction
	ReviewKey string
	Actor     string // login of the person who triggered the event
	Author    string // login of the pull request's creator
	Title     string
	URL       string
	State     string
	// Assignees carried by this specific event: the single assignee for
	// Assigned/Unassigned, the full current list for Reopened, empty for
	// Closed.
	Assignees []string
}

// ReviewKeyFor derives the stable storage key for a review. The Slack
// hyperlink form is kept so reminder messages referencing the key render as
// links.
func ReviewKeyFor(url, title string) string {
	return fmt.Sprintf("<%s|%s>", url, title)
}

// EventFromPullRequest transforms a raw GitHub pull-request webhook event into
// the internal ReviewEvent representation. It acts as an anti-corruption
// layer: uninteresting actions and payloads missing required fields yield an
// error, and the caller drops the event without touching any state.
func EventFromPullRequest(event *github.PullRequestEvent) (*ReviewEvent, error) {
	action := ReviewAction(event.GetAction())
	switch action {
	case ActionAssigned, ActionUnassigned, ActionClosed, ActionReopened:
	default:
		return nil, fmt.Errorf("action %q is not tracked", event.GetAction())
	}

	pr := event.GetPullRequest()
	if pr == nil {
		return nil, fmt.Errorf("pull request information is missing from the event")
	}
	if pr.GetUser().GetLogin() == "" {
		return nil, fmt.Errorf("pull request author is missing from the event")
	}
	if pr.GetHTMLURL() == "" || pr.GetTitle() == "" {
		return nil, fmt.Errorf("pull request URL or title is missing from the event")
	}
	if pr.GetState() == "" {
		return nil, fmt.Errorf("pull request state is missing from the event")
	}
	if event.GetSender().GetLogin() == "" {
		return nil, fmt.Errorf("sender information is missing from the event")
	}

	var assignees []string
	switch action {
	case ActionReopened:
		for _, a := range pr.Assignees {
			if a.GetLogin() != "" {
				assignees = append(assignees, a.GetLogin())
			}
		}
	case ActionAssigned, ActionUnassigned:
		if event.GetAssignee().GetLogin() == "" {
			return nil, fmt.Errorf("assignee information is missing from the event")
		}
		assignees = []string{event.GetAssignee().GetLogin()}
	case ActionClosed:
		// Closed never consults the assignee list.
	}

	return &ReviewEvent{
		Action:    action,
		ReviewKey: ReviewKeyFor(pr.GetHTMLURL(), pr.GetTitle()),
		Actor:     event.GetSender().GetLogin(),
		Author:    pr.GetUser().GetLogin(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		State:     pr.GetState(),
		Assignees: assignees,
	}, nil
}
