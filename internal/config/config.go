package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	SlackBotToken       string
	SlackAppToken       string
	OpenAIKey           string
	Model               string
	SearchModel         string
	EnableWebSearch     bool
	AssistantPrompt     string
	MaxCompletionTokens int
	HistoryLimit        int
	ThreadReplies       bool
	AllowedChannelIDs   []string
	NameCacheTTL        time.Duration
	Debug               bool
}

func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("could not read %s: %v", path, err)
	}

	cfg := Config{
		Model:               getenvDefault("OPENAI_MODEL", "gpt-4o"),
		SearchModel:         getenvDefault("OPENAI_SEARCH_MODEL", "gpt-4o-search-preview"),
		EnableWebSearch:     getenvBoolDefault("ENABLE_WEB_SEARCH", true),
		AssistantPrompt:     getenvDefault("ASSISTANT_PROMPT", "You are a helpful Slack bot assistant"),
		MaxCompletionTokens: getenvIntDefault("MAX_TOKENS", 4096),
		HistoryLimit:        getenvIntDefault("HISTORY_LIMIT", 1000),
		ThreadReplies:       getenvBoolDefault("THREAD_REPLIES", true),
		NameCacheTTL:        time.Duration(getenvIntDefault("NAME_CACHE_TTL_MINUTES", 60)) * time.Minute,
		Debug:               getenvBoolDefault("DEBUG", false),
	}

	cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	cfg.SlackAppToken = os.Getenv("SLACK_APP_TOKEN")
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.SlackBotToken == "" || cfg.SlackAppToken == "" || cfg.OpenAIKey == "" {
		return cfg, errors.New("slack bot token, slack app token and openai api key are required")
	}
	if !strings.HasPrefix(cfg.SlackBotToken, "xoxb-") {
		return cfg, fmt.Errorf("SLACK_BOT_TOKEN must start with xoxb-")
	}
	if !strings.HasPrefix(cfg.SlackAppToken, "xapp-") {
		return cfg, fmt.Errorf("SLACK_APP_TOKEN must start with xapp-")
	}

	cfg.AllowedChannelIDs = parseList(os.Getenv("ALLOWED_CHANNEL_IDS"))

	return cfg, nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ids = append(ids, p)
	}
	return ids
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid int for %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func getenvBoolDefault(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid bool for %s=%q, using default %v", key, v, def)
		return def
	}
	return b
}
