package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"sawmill.app/ledger/common/logger"
)

const (
	// MaxMessageLength is the Bot API limit for sendMessage text, in characters.
	MaxMessageLength = 4096
	DefaultAPIURL    = "https://api.telegram.org"
	defaultTimeout   = 15 * time.Second
)

// ErrNoToken is returned by every call when the bot token is not configured.
var ErrNoToken = errors.New("telegram bot token not configured")

// webhookUpdates are the update kinds the intake reads.
var webhookUpdates = []string{"message", "edited_message"}

// Sender delivers text replies to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error)
}

type Config struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

// Client wraps the Bot API client. A Client built without a token is disabled
// and refuses every call with ErrNoToken.
type Client struct {
	token string
	bot   *bot.Bot
}

func NewClient(cfg Config) (*Client, error) {
	c := &Client{token: strings.TrimSpace(cfg.Token)}
	if c.token == "" {
		return c, nil
	}

	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	b, err := bot.New(c.token,
		bot.WithSkipGetMe(),
		bot.WithServerURL(apiURL),
		bot.WithHTTPClient(timeout, &http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating telegram bot: %w", c.redact(err))
	}
	c.bot = b
	return c, nil
}

func (c *Client) Enabled() bool {
	return c != nil && c.bot != nil
}

// SendMessage posts text to the chat, truncated to MaxMessageLength characters.
// replyTo of 0 sends a plain message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, replyTo int64) (*models.Message, error) {
	if !c.Enabled() {
		return nil, ErrNoToken
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ChatID:    &chatID,
		Component: "ledger.telegram",
	})

	params := &bot.SendMessageParams{
		ChatID:             chatID,
		Text:               Truncate(text, MaxMessageLength),
		LinkPreviewOptions: &models.LinkPreviewOptions{IsDisabled: bot.True()},
	}
	if replyTo != 0 {
		params.ReplyParameters = &models.ReplyParameters{MessageID: int(replyTo)}
	}

	sent, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		err = fmt.Errorf("telegram sendMessage: %w", c.redact(err))
		slog.ErrorContext(ctx, "telegram send failed", "error", err)
		return nil, err
	}

	slog.InfoContext(ctx, "telegram send ok", "sent_message_id", sent.ID)
	return sent, nil
}

// SetWebhook points the bot at webhookURL. Telegram echoes secret back in the
// X-Telegram-Bot-Api-Secret-Token header of every update.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	if !c.Enabled() {
		return ErrNoToken
	}
	ok, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:            webhookURL,
		SecretToken:    secret,
		AllowedUpdates: webhookUpdates,
	})
	if err != nil {
		return fmt.Errorf("telegram setWebhook: %w", c.redact(err))
	}
	if !ok {
		return errors.New("telegram setWebhook: not accepted")
	}
	return nil
}

func (c *Client) GetMe(ctx context.Context) (*models.User, error) {
	if !c.Enabled() {
		return nil, ErrNoToken
	}
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("telegram getMe: %w", c.redact(err))
	}
	return me, nil
}

// MaskedToken is the configured token safe for logs and debug output.
func (c *Client) MaskedToken() string {
	return MaskToken(c.token)
}

// redact masks the token in errors that quote the request URL.
func (c *Client) redact(err error) error {
	if err == nil || c.token == "" || !strings.Contains(err.Error(), c.token) {
		return err
	}
	return &maskedError{msg: strings.ReplaceAll(err.Error(), c.token, MaskToken(c.token)), err: err}
}

type maskedError struct {
	msg string
	err error
}

func (e *maskedError) Error() string { return e.msg }
func (e *maskedError) Unwrap() error { return e.err }

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// MaskToken keeps the bot id and the last four characters: "123456:****wxyz".
func MaskToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return "<empty>"
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	tail := token[len(token)-4:]
	if i := strings.IndexByte(token, ':'); i >= 0 && i < len(token)-4 {
		return token[:i+1] + "****" + tail
	}
	return "****" + tail
}
