package slackapi

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"chatgpt-slack-bot/internal/config"
	"chatgpt-slack-bot/internal/domain"
	"chatgpt-slack-bot/internal/usecase/mention"
)

// Bot runs the Socket Mode event loop and dispatches app_mention events to
// the mention service. Each event is handled in its own goroutine; handler
// errors are logged, never fatal.
type Bot struct {
	socket    *socketmode.Client
	svc       *mention.Service
	replier   mention.Replier
	botUserID string
	cfg       config.Config
	log       *slog.Logger
}

func NewBot(api *slack.Client, svc *mention.Service, replier mention.Replier, botUserID string, cfg config.Config, log *slog.Logger) *Bot {
	return &Bot{
		socket:    socketmode.New(api, socketmode.OptionDebug(cfg.Debug)),
		svc:       svc,
		replier:   replier,
		botUserID: botUserID,
		cfg:       cfg,
		log:       log,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	go func() {
		for evt := range b.socket.Events {
			b.handleEvent(ctx, evt)
		}
	}()

	return b.socket.RunContext(ctx)
}

func (b *Bot) handleEvent(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.log.Info("slack: connecting to socket mode")
	case socketmode.EventTypeConnected:
		b.log.Info("slack: connected")
	case socketmode.EventTypeConnectionError:
		b.log.Error("slack: connection error", "data", evt.Data)
	case socketmode.EventTypeEventsAPI:
		e, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		if evt.Request != nil {
			b.socket.Ack(*evt.Request)
		}
		b.handleEventsAPI(ctx, e)
	}
}

func (b *Bot) handleEventsAPI(ctx context.Context, e slackevents.EventsAPIEvent) {
	if e.Type != slackevents.CallbackEvent {
		return
	}

	ev, ok := e.InnerEvent.Data.(*slackevents.AppMentionEvent)
	if !ok {
		return
	}
	// never respond to ourselves or to other bots
	if ev.User == b.botUserID || ev.BotID != "" {
		return
	}
	if !channelAllowed(ev.Channel, b.cfg.AllowedChannelIDs) {
		b.log.Debug("ignoring mention in disallowed channel", "channel", ev.Channel)
		return
	}

	event := domain.MentionEvent{
		Channel:         ev.Channel,
		User:            ev.User,
		Timestamp:       ev.TimeStamp,
		ThreadTimestamp: ev.ThreadTimeStamp,
		Text:            ev.Text,
	}
	b.log.Info("mention received", "channel", event.Channel, "user", event.User, "ts", event.Timestamp)

	go func() {
		if err := b.svc.HandleMention(ctx, event, b.replier); err != nil {
			b.log.Error("mention handling failed", "channel", event.Channel, "ts", event.Timestamp, "error", err)
		}
	}()
}

func channelAllowed(channelID string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, id := range allowed {
		if id == channelID {
			return true
		}
	}
	return false
}
