package slack

import (
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier announces staged drafts in a Slack channel. It is entirely
// optional: a nil Notifier is a no-op, and notification failures are
// the caller's to log, never fatal.
type Notifier struct {
	api     *slack.Client
	channel string
}

// NewNotifier builds a notifier, or nil when Slack is not configured.
func NewNotifier(token, channel string) *Notifier {
	if token == "" || channel == "" {
		return nil
	}
	return &Notifier{
		api:     slack.New(token),
		channel: channel,
	}
}

// NotifyStaged posts a short message about a freshly staged draft.
func (n *Notifier) NotifyStaged(postContent, shareURL string) error {
	if n == nil {
		return nil
	}

	preview := postContent
	if len(preview) > 200 {
		preview = preview[:200] + "…"
	}
	message := fmt.Sprintf("📝 Draft staged for review:\n> %s", preview)
	if shareURL != "" {
		message += fmt.Sprintf("\n%s", shareURL)
	}

	_, _, err := n.api.PostMessage(
		n.channel,
		slack.MsgOptionText(message, false),
	)
	return err
}
