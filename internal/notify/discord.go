package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// DiscordChannel posts to a Discord-compatible webhook. Discord
// answers a successful webhook execution with 204 No Content.
type DiscordChannel struct {
	webhookURL string
	client     *retryablehttp.Client
}

func NewDiscordChannel(webhookURL string) *DiscordChannel {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	return &DiscordChannel{webhookURL: webhookURL, client: client}
}

func (c *DiscordChannel) Name() string { return "discord" }

func (c *DiscordChannel) Send(ctx context.Context, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"content": subject + "\n" + body,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("webhook returned status %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	return nil
}
