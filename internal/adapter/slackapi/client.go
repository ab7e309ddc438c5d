package slackapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
	slackutil "github.com/takara2314/slack-go-util"

	"chatgpt-slack-bot/internal/adapter/memory"
	"chatgpt-slack-bot/internal/domain"
)

// Slack rejects chat.postMessage text beyond ~4000 characters.
const maxMessageRunes = 4000

// Client wraps the Slack Web API behind the usecase interfaces: history
// fetch, display-name resolution and reply emission.
type Client struct {
	api   *slack.Client
	names *memory.NameCache
	log   *slog.Logger
}

func NewClient(api *slack.Client, names *memory.NameCache, log *slog.Logger) *Client {
	return &Client{
		api:   api,
		names: names,
		log:   log,
	}
}

// BotUserID asks Slack who we are. Needed to strip our own mention token
// from prompts and to ignore our own messages.
func (c *Client) BotUserID(ctx context.Context) (string, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth.test: %w", err)
	}
	return resp.UserID, nil
}

// History returns up to limit recent messages for a channel, in the order
// Slack delivers them (newest first). Order is preserved downstream.
func (c *Client) History(ctx context.Context, channelID string, limit int) ([]domain.ChannelMessage, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("conversations.history: %w", err)
	}

	msgs := make([]domain.ChannelMessage, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		msgs = append(msgs, domain.ChannelMessage{
			User:      m.User,
			Text:      m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return msgs, nil
}

// DisplayName resolves a user id to a human-readable name, preferring the
// real name over the handle. Results are cached across events.
func (c *Client) DisplayName(ctx context.Context, userID string) (string, error) {
	if name, ok := c.names.Get(userID); ok {
		return name, nil
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("users.info %s: %w", userID, err)
	}

	name := user.RealName
	if name == "" {
		name = user.Name
	}
	if name == "" {
		name = userID
	}
	c.names.Put(userID, name)
	return name, nil
}

// Reply posts text to a channel, threaded when threadTS is set. Long
// responses are split into chunks; every chunk carries the thread
// timestamp so the whole reply stays in one thread.
func (c *Client) Reply(ctx context.Context, channelID, threadTS, text string) error {
	for _, chunk := range splitText(text, maxMessageRunes) {
		opts := c.messageOptions(chunk)
		if threadTS != "" {
			opts = append(opts, slack.MsgOptionTS(threadTS))
		}
		if _, _, err := c.api.PostMessageContext(ctx, channelID, opts...); err != nil {
			return fmt.Errorf("chat.postMessage: %w", err)
		}
	}
	return nil
}

// messageOptions renders markdown as Slack blocks, falling back to plain
// text when conversion fails.
func (c *Client) messageOptions(text string) []slack.MsgOption {
	blocks, err := slackutil.ConvertMarkdownTextToBlocks(text)
	if err != nil || len(blocks) == 0 {
		if err != nil {
			c.log.Debug("markdown conversion failed, sending plain text", "error", err)
		}
		return []slack.MsgOption{slack.MsgOptionText(text, false)}
	}
	return []slack.MsgOption{slack.MsgOptionBlocks(blocks...)}
}

func splitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
