package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

const embedColor = 0x22C55E

// Webhook is a Discord webhook notifier.
type Webhook struct {
	webhookURL string
	httpClient *http.Client
	logger     ports.Logger
	now        func() time.Time
}

var _ ports.Notifier = (*Webhook)(nil)

// NewWebhook creates a new Discord webhook notifier.
func NewWebhook(webhookURL string, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Fields      []embedField      `json:"fields,omitempty"`
	Timestamp   string            `json:"timestamp"`
	Color       int               `json:"color"`
	Footer      map[string]string `json:"footer"`
}

type payload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

func (w *Webhook) Name() string { return "discord" }

// Send posts the notification as a single embed.
func (w *Webhook) Send(ctx context.Context, notification model.Notification) error {
	if w.webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	stamp := notification.Timestamp
	if stamp.IsZero() {
		stamp = w.now()
	}
	body, err := json.Marshal(payload{
		Embeds: []embed{{
			Title:       truncate(notification.Title, 256),
			Description: truncate(notification.Description, 4096),
			Fields:      convertFields(notification.Fields),
			Timestamp:   stamp.UTC().Format(time.RFC3339),
			Color:       embedColor,
			Footer:      map[string]string{"text": "Vertex progress tracker"},
		}},
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode)
	}

	w.logger.Info(ctx, "notification sent to discord")
	return nil
}

// Discord allows at most 25 fields per embed.
func convertFields(fields []model.NotificationField) []embedField {
	if len(fields) == 0 {
		return nil
	}
	if len(fields) > 25 {
		fields = fields[:25]
	}

	result := make([]embedField, 0, len(fields))
	for _, field := range fields {
		result = append(result, embedField{
			Name:   truncate(field.Name, 256),
			Value:  truncate(field.Value, 1024),
			Inline: field.Inline,
		})
	}
	return result
}

// truncate caps value at limit characters, which is how Discord counts.
func truncate(value string, limit int) string {
	r := []rune(value)
	if len(r) <= limit {
		return value
	}
	return strings.TrimSpace(string(r[:limit-3])) + "..."
}
