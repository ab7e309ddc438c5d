package mention

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"chatgpt-slack-bot/internal/config"
	"chatgpt-slack-bot/internal/domain"
)

// FallbackResponse is sent whenever the completion call fails. This is the
// whole error-recovery policy: no retries, no backoff.
const FallbackResponse = "I'm having trouble thinking right now. Please try again later."

type HistoryFetcher interface {
	History(ctx context.Context, channelID string, limit int) ([]domain.ChannelMessage, error)
}

type NameResolver interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, *domain.Usage, error)
}

type Replier interface {
	Reply(ctx context.Context, channelID, threadTS, text string) error
}

type CompletionRequest struct {
	Transcript []domain.Message
	Prompt     string
	WebSearch  bool
}

type Service struct {
	history   HistoryFetcher
	names     NameResolver
	completer Completer
	botUserID string
	cfg       config.Config
	log       *slog.Logger
}

func NewService(history HistoryFetcher, names NameResolver, completer Completer, botUserID string, cfg config.Config, log *slog.Logger) *Service {
	return &Service{
		history:   history,
		names:     names,
		completer: completer,
		botUserID: botUserID,
		cfg:       cfg,
		log:       log,
	}
}

// HandleMention runs the whole pipeline for one mention event: extract the
// prompt, fetch channel history, format it, complete, reply. A history
// fetch failure propagates; a completion failure degrades to
// FallbackResponse inside respond.
func (s *Service) HandleMention(ctx context.Context, ev domain.MentionEvent, replier Replier) error {
	prompt := ExtractPrompt(ev.Text, s.botUserID)

	msgs, err := s.history.History(ctx, ev.Channel, s.cfg.HistoryLimit)
	if err != nil {
		return fmt.Errorf("fetch history for %s: %w", ev.Channel, err)
	}

	transcript := s.FormatHistory(ctx, msgs)
	text, usage := s.respond(ctx, transcript, prompt)

	threadTS := ""
	if s.cfg.ThreadReplies {
		threadTS = ev.Timestamp
		if ev.ThreadTimestamp != "" {
			threadTS = ev.ThreadTimestamp
		}
	}

	if err := replier.Reply(ctx, ev.Channel, threadTS, text); err != nil {
		return fmt.Errorf("send reply to %s: %w", ev.Channel, err)
	}

	if usage != nil {
		s.log.Info("mention handled",
			"channel", ev.Channel,
			"history", len(msgs),
			"transcript", len(transcript),
			"total_tokens", usage.TotalTokens)
	}
	return nil
}

// FormatHistory maps raw channel messages to transcript entries, resolving
// author ids to display names. Messages with no author or whitespace-only
// text are dropped; relative order is preserved. Each distinct author is
// resolved at most once per call.
func (s *Service) FormatHistory(ctx context.Context, msgs []domain.ChannelMessage) []domain.Message {
	resolved := make(map[string]string)
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.User == "" || strings.TrimSpace(m.Text) == "" {
			continue
		}
		name, ok := resolved[m.User]
		if !ok {
			name = s.resolveName(ctx, m.User)
			resolved[m.User] = name
		}
		out = append(out, domain.Message{
			Role:    domain.RoleUser,
			Content: name + ": " + m.Text,
		})
	}
	return out
}

func (s *Service) resolveName(ctx context.Context, userID string) string {
	name, err := s.names.DisplayName(ctx, userID)
	if err != nil || name == "" {
		// degrade to the raw id instead of aborting the pass
		s.log.Debug("could not resolve user name", "user", userID, "error", err)
		return userID
	}
	return name
}

// respond calls the completion endpoint and absorbs any failure into the
// fixed fallback string with nil usage.
func (s *Service) respond(ctx context.Context, transcript []domain.Message, prompt string) (string, *domain.Usage) {
	text, usage, err := s.completer.Complete(ctx, CompletionRequest{
		Transcript: transcript,
		Prompt:     prompt,
		WebSearch:  s.cfg.EnableWebSearch,
	})
	if err != nil {
		s.log.Warn("completion failed, using fallback", "error", err)
		return FallbackResponse, nil
	}
	return text, usage
}

// ExtractPrompt strips the bot's own mention token from the event text and
// trims surrounding whitespace.
func ExtractPrompt(text, botUserID string) string {
	if botUserID != "" {
		text = strings.ReplaceAll(text, "<@"+botUserID+">", "")
	}
	return strings.TrimSpace(text)
}
