// Package handler provides the HTTP handlers for inbound webhooks.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"preminder/internal/config"
	"preminder/internal/core"
)

// WebhookHandler processes incoming webhooks from GitHub. Uninteresting
// events are acknowledged with 200 and no effect; only queue saturation or a
// broken payload produce an error response.
type WebhookHandler struct {
	cfg        *config.Config
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates a new webhook handler with the given configuration
// and dispatcher.
func NewWebhookHandler(cfg *config.Config, dispatcher core.JobDispatcher, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle processes GitHub webhook requests. Signature validation only runs
// when a webhook secret is configured.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(h.cfg.GitHubWebhookSecret))
	if err != nil {
		h.logger.Error("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	switch e := event.(type) {
	case *github.PullRequestEvent:
		h.handlePullRequest(r.Context(), w, e)
	default:
		h.logger.Debug("ignoring unhandled webhook event type", "type", github.WebHookType(r))
		_, _ = fmt.Fprint(w, "Event type not handled")
	}
}

// handlePullRequest normalizes a pull-request event and queues it for
// reconciliation.
func (h *WebhookHandler) handlePullRequest(ctx context.Context, w http.ResponseWriter, event *github.PullRequestEvent) {
	reviewEvent, err := core.EventFromPullRequest(event)
	if err != nil {
		h.logger.Debug("ignoring pull request event", "reason", err.Error(), "action", event.GetAction())
		_, _ = fmt.Fprint(w, "Event ignored")
		return
	}

	if err := h.dispatcher.Dispatch(ctx, reviewEvent); err != nil {
		h.logger.Error("failed to dispatch review event", "error", err, "key", reviewEvent.ReviewKey)
		http.Error(w, "Failed to queue event", http.StatusServiceUnavailable)
		return
	}

	h.logger.Info("review event queued", "key", reviewEvent.ReviewKey, "action", reviewEvent.Action)
	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "Event accepted")
}
