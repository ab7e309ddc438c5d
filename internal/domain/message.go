package domain

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChannelMessage is a raw message as delivered by the Slack history API.
type ChannelMessage struct {
	User      string
	Text      string
	Timestamp string
}

// Message is one transcript entry sent to the completion endpoint.
type Message struct {
	Role    string
	Content string
}

// Usage carries token accounting returned by the completion endpoint.
// Nil when the completion failed.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// MentionEvent is an inbound notification that the bot was referenced
// in a channel message.
type MentionEvent struct {
	Channel         string
	User            string
	Timestamp       string
	ThreadTimestamp string
	Text            string
}
