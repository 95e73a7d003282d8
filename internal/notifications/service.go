package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rote/internal/config"
)

const userAgent = "Rote-Go/0.1.0"

// Event identifies a run milestone worth pushing to the operator.
type Event string

const (
	EventRunStarted    Event = "run-started"
	EventDeckCompleted Event = "deck-completed"
	EventDeckFailed    Event = "deck-failed"
	EventRunCompleted  Event = "run-completed"
)

// Payload carries the preformatted fields referenced by an event message.
type Payload map[string]string

// Service publishes run progress to the configured notification transport.
type Service interface {
	Publish(ctx context.Context, event Event, data Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) Publish(ctx context.Context, event Event, data Payload) error {
	msg, ok := format(event, data)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, data Payload) (message, bool) {
	switch event {
	case EventRunStarted:
		return message{
			title: "Rote - Run Started",
			body:  fmt.Sprintf("Started batch run with %s decks", field(data, "decks", "0")),
			tags:  []string{"rote", "run", "started"},
		}, true
	case EventDeckCompleted:
		return message{
			title: "Rote - Deck Complete",
			body:  fmt.Sprintf("✅ Deck complete: %s (%s)", field(data, "title", "unknown"), field(data, "duration", "0s")),
			tags:  []string{"rote", "deck", "completed"},
		}, true
	case EventDeckFailed:
		return message{
			title:    "Rote - Deck Failed",
			body:     fmt.Sprintf("❌ Deck failed: %s: %s", field(data, "title", "unknown"), field(data, "error", "unknown")),
			tags:     []string{"rote", "deck", "failed"},
			priority: "high",
		}, true
	case EventRunCompleted:
		processed := field(data, "processed", "0")
		failed := field(data, "failed", "0")
		duration := field(data, "duration", "0s")
		if failed == "0" {
			return message{
				title: "Rote - Run Complete",
				body:  fmt.Sprintf("Run complete: %s decks in %s", processed, duration),
				tags:  []string{"rote", "run", "completed"},
			}, true
		}
		return message{
			title:    "Rote - Run Complete (with errors)",
			body:     fmt.Sprintf("Run complete: %s succeeded, %s failed in %s", processed, failed, duration),
			tags:     []string{"rote", "run", "completed"},
			priority: "high",
		}, true
	default:
		return message{}, false
	}
}

func field(data Payload, key, fallback string) string {
	if value := strings.TrimSpace(data[key]); value != "" {
		return value
	}
	return fallback
}

// FormatDuration renders an elapsed duration for notification bodies.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
