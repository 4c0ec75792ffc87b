package slack

import (
	"context"

	"github.com/slack-go/slack"
)

// Service provides interface to Slack API for posting risk reports
type Service interface {
	// ListJoinedChannels retrieves the list of channels the bot has joined
	ListJoinedChannels(ctx context.Context) ([]Channel, error)

	// ResolveChannel returns the channel ID for a channel ID or a "#name".
	// Names are looked up among the joined channels and cached.
	ResolveChannel(ctx context.Context, nameOrID string) (string, error)

	// PostMessage posts a Block Kit message to a channel and returns the message timestamp.
	// The text parameter is used as a fallback for notifications.
	PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error)
}

// Channel represents a Slack channel
type Channel struct {
	ID   string
	Name string
}
