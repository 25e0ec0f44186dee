package telegram

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// Telegram caps message text at 4096 characters.
const maxMessageLen = 4096

// Notifier sends notifications as HTML messages to one chat. The bot client
// is created on first use.
type Notifier struct {
	token      string
	chatID     int64
	endpoint   string
	httpClient *http.Client
	logger     ports.Logger

	mu  sync.Mutex
	api *tgbotapi.BotAPI
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a notifier for chatID. An empty endpoint uses the public Bot API.
func New(token string, chatID int64, endpoint string, timeout time.Duration, logger ports.Logger) *Notifier {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &Notifier{
		token:      token,
		chatID:     chatID,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (n *Notifier) bot() (*tgbotapi.BotAPI, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.api != nil {
		return n.api, nil
	}
	api, err := tgbotapi.NewBotAPIWithClient(n.token, n.endpoint, n.httpClient)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	n.api = api
	return api, nil
}

func (n *Notifier) Name() string { return "telegram" }

// Send posts the notification to the configured chat.
func (n *Notifier) Send(ctx context.Context, notification model.Notification) error {
	if n.token == "" || n.chatID == 0 {
		return fmt.Errorf("telegram token or chat id is empty")
	}
	api, err := n.bot()
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, Render(notification))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := api.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Info(ctx, "notification sent to telegram", "chat", n.chatID)
	return nil
}

// Render formats a notification as Telegram HTML.
func Render(notification model.Notification) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(notification.Title))
	b.WriteString("</b>")
	if notification.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(html.EscapeString(notification.Description))
	}
	for _, f := range notification.Fields {
		b.WriteString("\n\n<b>")
		b.WriteString(html.EscapeString(f.Name))
		b.WriteString("</b>\n")
		b.WriteString(html.EscapeString(f.Value))
	}

	text := b.String()
	if len(text) > maxMessageLen {
		// cut on a line boundary so no tag is left open
		cut := strings.LastIndex(text[:maxMessageLen-4], "\n")
		if cut <= 0 {
			cut = maxMessageLen - 4
		}
		text = text[:cut] + "\n..."
	}
	return text
}
