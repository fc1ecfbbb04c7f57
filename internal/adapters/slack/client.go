package slack

import (
	"context"
	"fmt"
	"sync"

	slackapi "github.com/slack-go/slack"

	"github.com/threadpulse/threadpulse/internal/adapters/config"
	"github.com/threadpulse/threadpulse/pkg/models"
)

// threadFetchLimit caps how many thread messages a deep-analysis fetch reads
const threadFetchLimit = 50

// Client wraps the Slack Web API. User and channel profiles are fetched
// lazily and cached for the process lifetime; profile identity rarely
// changes within one uptime, so there is no eviction.
type Client struct {
	api *slackapi.Client

	userMu sync.RWMutex
	users  map[string]models.User

	chanMu   sync.RWMutex
	channels map[string]models.Channel
}

// New creates a new Slack client
func New(cfg *config.SlackConfig) *Client {
	return &Client{
		api:      slackapi.New(cfg.BotToken),
		users:    make(map[string]models.User),
		channels: make(map[string]models.Channel),
	}
}

// FetchUser returns the profile for a user ID, from cache when possible
func (c *Client) FetchUser(ctx context.Context, userID string) (models.User, error) {
	c.userMu.RLock()
	user, ok := c.users[userID]
	c.userMu.RUnlock()
	if ok {
		return user, nil
	}

	info, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	user = models.User{
		ID:          info.ID,
		Username:    info.Name,
		DisplayName: info.Profile.DisplayName,
	}
	if user.DisplayName == "" {
		user.DisplayName = info.RealName
	}

	c.userMu.Lock()
	c.users[userID] = user
	c.userMu.Unlock()

	return user, nil
}

// FetchChannel returns the profile for a channel ID, from cache when possible
func (c *Client) FetchChannel(ctx context.Context, channelID string) (models.Channel, error) {
	c.chanMu.RLock()
	channel, ok := c.channels[channelID]
	c.chanMu.RUnlock()
	if ok {
		return channel, nil
	}

	info, err := c.api.GetConversationInfoContext(ctx, &slackapi.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return models.Channel{}, fmt.Errorf("failed to fetch channel %s: %w", channelID, err)
	}

	channel = models.Channel{ID: info.ID, Name: info.Name}

	c.chanMu.Lock()
	c.channels[channelID] = channel
	c.chanMu.Unlock()

	return channel, nil
}

// FetchThreadMessages returns the live thread (root plus replies) for a
// root timestamp, up to threadFetchLimit messages.
func (c *Client) FetchThreadMessages(ctx context.Context, channelID, rootTS string) ([]models.ThreadMessage, error) {
	msgs, _, _, err := c.api.GetConversationRepliesContext(ctx, &slackapi.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: rootTS,
		Inclusive: true,
		Limit:     threadFetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch thread %s: %w", rootTS, err)
	}

	out := make([]models.ThreadMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, models.ThreadMessage{
			TS:       m.Timestamp,
			ThreadTS: m.ThreadTimestamp,
			UserID:   m.User,
			Text:     m.Text,
		})
	}

	return out, nil
}

// FetchReactions returns the live reaction tallies on one message
func (c *Client) FetchReactions(ctx context.Context, channelID, ts string) ([]models.ReactionCount, error) {
	reactions, err := c.api.GetReactionsContext(ctx,
		slackapi.ItemRef{Channel: channelID, Timestamp: ts},
		slackapi.GetReactionsParameters{Full: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reactions for %s: %w", ts, err)
	}

	out := make([]models.ReactionCount, 0, len(reactions))
	for _, r := range reactions {
		out = append(out, models.ReactionCount{Name: r.Name, Count: r.Count})
	}

	return out, nil
}

// FetchRootMessage looks up a single message by timestamp via channel
// history. Returns nil when the platform has no such message.
func (c *Client) FetchRootMessage(ctx context.Context, channelID, ts string) (*models.ThreadMessage, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slackapi.GetConversationHistoryParameters{
		ChannelID: channelID,
		Latest:    ts,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message %s: %w", ts, err)
	}

	if len(resp.Messages) == 0 {
		return nil, nil
	}

	m := resp.Messages[0]
	return &models.ThreadMessage{
		TS:       m.Timestamp,
		ThreadTS: m.ThreadTimestamp,
		UserID:   m.User,
		Text:     m.Text,
	}, nil
}

// OpenModal opens a modal view for an interaction trigger
func (c *Client) OpenModal(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error {
	if _, err := c.api.OpenViewContext(ctx, triggerID, view); err != nil {
		return fmt.Errorf("failed to open modal: %w", err)
	}
	return nil
}

// UploadFile uploads a text file to a channel
func (c *Client) UploadFile(ctx context.Context, channelID, filename, title, content string) error {
	_, err := c.api.UploadFileV2Context(ctx, slackapi.UploadFileV2Parameters{
		Channel:  channelID,
		Filename: filename,
		Title:    title,
		Content:  content,
		FileSize: len(content),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file %s: %w", filename, err)
	}
	return nil
}
