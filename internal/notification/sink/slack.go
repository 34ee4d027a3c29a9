package sink

import (
	"context"

	"github.com/smallbiznis/clubhouse/internal/notification/domain"
	"github.com/smallbiznis/clubhouse/internal/providers/slack"
)

// Slack posts a one-line summary of each notification. The payload is not
// forwarded since it may identify a registrant.
type Slack struct {
	provider slack.Provider
	channel  string
}

func NewSlack(provider slack.Provider, channel string) *Slack {
	return &Slack{provider: provider, channel: channel}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Notify(ctx context.Context, n domain.Notification) error {
	text := n.Title
	if n.Body != "" {
		text += "\n" + n.Body
	}
	return s.provider.PostMessage(ctx, s.channel, text)
}
