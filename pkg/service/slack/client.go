package slack

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// DefaultCacheTTL is the default TTL for the channel name cache
const DefaultCacheTTL = 5 * time.Minute

// ErrChannelNotFound is returned when a channel name is not among the joined channels
var ErrChannelNotFound = goerr.New("slack channel not found")

// cacheEntry holds a cached channel ID with expiration
type cacheEntry struct {
	id        string
	expiresAt time.Time
}

// client implements Service interface
type client struct {
	api      *slack.Client
	apiURL   string
	cacheTTL time.Duration

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option is a functional option for client configuration
type Option func(*client)

// WithCacheTTL sets the TTL for the channel name cache
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *client) {
		c.cacheTTL = ttl
	}
}

// WithAPIURL points the client at another Slack API endpoint
func WithAPIURL(url string) Option {
	return func(c *client) {
		c.apiURL = url
	}
}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &client{
		cacheTTL: DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// ListJoinedChannels pages through public and private channels and keeps
// those the bot is a member of. Private channels are only visible with the
// groups:read scope.
func (c *client) ListJoinedChannels(ctx context.Context) ([]Channel, error) {
	params := &slack.GetConversationsParameters{
		Types:           []string{"public_channel", "private_channel"},
		ExcludeArchived: true,
		Limit:           200,
	}

	var channels []Channel
	for {
		convs, next, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list Slack channels", goerr.V("cursor", params.Cursor))
		}
		for _, conv := range convs {
			if !conv.IsMember {
				continue
			}
			channels = append(channels, Channel{ID: conv.ID, Name: conv.Name})
		}
		if next == "" {
			return channels, nil
		}
		params.Cursor = next
	}
}

// ResolveChannel maps "#name" to a channel ID. Anything not starting with '#' is taken as an ID.
func (c *client) ResolveChannel(ctx context.Context, nameOrID string) (string, error) {
	if !strings.HasPrefix(nameOrID, "#") {
		return nameOrID, nil
	}
	name := NormalizeChannelName(nameOrID)
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.cache[name]
	c.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.id, nil
	}

	channels, err := c.ListJoinedChannels(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range channels {
		c.cache[ch.Name] = cacheEntry{id: ch.ID, expiresAt: now.Add(c.cacheTTL)}
	}

	if entry, ok := c.cache[name]; ok {
		return entry.id, nil
	}
	return "", goerr.Wrap(ErrChannelNotFound, "bot has not joined the channel", goerr.V("channel", nameOrID))
}

// PostMessage posts a Block Kit message and returns its timestamp
func (c *client) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	_, ts, err := c.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}
	return ts, nil
}
