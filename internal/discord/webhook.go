// Package discord posts build reports to a Discord webhook.
package discord

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"match-analyzer/internal/dataset"
)

const (
	// Colors for Discord embeds
	colorRed    = 15158332 // 0xE74C3C - for errors/expiration
	colorGreen  = 5763719  // 0x57F287 - for success
	colorYellow = 16705372 // 0xFEE75C - for interrupted builds

	// Default timeout for webhook requests
	defaultWebhookTimeout = 10 * time.Second

	// Max retries for rate limiting
	maxRetries = 3
)

// WebhookPayload represents a Discord webhook message
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed represents a Discord embed
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
}

// EmbedField represents a field in a Discord embed
type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// EmbedFooter represents the footer of a Discord embed
type EmbedFooter struct {
	Text string `json:"text"`
}

// BuildReport describes one finished (or interrupted) build
type BuildReport struct {
	// Source names what was built, e.g. a Riot ID or "CHALLENGER ladder"
	Source      string
	Summary     dataset.Summary
	Rows        int
	Runtime     time.Duration
	Interrupted bool
	FinishedAt  time.Time
}

// NewBuildReportPayload creates a payload summarizing a build
func NewBuildReportPayload(r BuildReport) WebhookPayload {
	title, color := "✅ Dataset Build Complete", colorGreen
	if r.Interrupted {
		title, color = "⏸️ Dataset Build Interrupted", colorYellow
	}

	embed := Embed{
		Title:       title,
		Description: r.Source,
		Color:       color,
		Fields: []EmbedField{
			{Name: "Added", Value: formatNumber(r.Summary.Added), Inline: true},
			{Name: "Duplicates", Value: formatNumber(r.Summary.Duplicates), Inline: true},
			{Name: "Skipped", Value: formatNumber(r.Summary.Skipped), Inline: true},
			{Name: "Errored", Value: formatNumber(r.Summary.Errored), Inline: true},
			{Name: "Winner Anomalies", Value: formatNumber(r.Summary.Anomalies), Inline: true},
			{Name: "Runtime", Value: formatDuration(r.Runtime), Inline: true},
		},
		Footer: &EmbedFooter{Text: fmt.Sprintf("Dataset now has %s rows", formatNumber(r.Rows))},
	}
	if !r.FinishedAt.IsZero() {
		embed.Timestamp = r.FinishedAt.UTC().Format(time.RFC3339)
	}
	return WebhookPayload{Embeds: []Embed{embed}}
}

// NewKeyRejectedPayload creates a payload for a harvest stopped by a rejected
// API key
func NewKeyRejectedPayload(matchesAdded int, runtime time.Duration) WebhookPayload {
	return WebhookPayload{
		Content: "@here API Key Rejected!",
		Embeds: []Embed{
			{
				Title: "🔑 API Key Rejected",
				Color: colorRed,
				Fields: []EmbedField{
					{
						Name:   "Matches Added",
						Value:  formatNumber(matchesAdded),
						Inline: true,
					},
					{
						Name:   "Runtime",
						Value:  formatDuration(runtime),
						Inline: true,
					},
				},
				Footer: &EmbedFooter{
					Text: "Update RIOT_API_KEY and re-run; finished matches are kept",
				},
			},
		},
	}
}

// WebhookClient sends notifications to Discord webhooks
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient creates a new WebhookClient
func NewWebhookClient(webhookURL string) *WebhookClient {
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: defaultWebhookTimeout,
		},
	}
}

// SendBuildReport posts a build report
func (c *WebhookClient) SendBuildReport(ctx context.Context, r BuildReport) error {
	return c.sendPayload(ctx, NewBuildReportPayload(r))
}

// SendKeyRejected posts a rejected-key alert
func (c *WebhookClient) SendKeyRejected(ctx context.Context, matchesAdded int, runtime time.Duration) error {
	return c.sendPayload(ctx, NewKeyRejectedPayload(matchesAdded, runtime))
}

// sendPayload sends a webhook payload with retry on rate limiting
func (c *WebhookClient) sendPayload(ctx context.Context, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		resp.Body.Close()

		// Success - Discord returns 204 No Content
		if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
			return nil
		}

		// Rate limited - wait and retry
		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := time.Second
			if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
				waitDuration = time.Duration(seconds) * time.Second
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		return fmt.Errorf("webhook request failed with status %d", resp.StatusCode)
	}

	return fmt.Errorf("webhook request failed after %d retries", maxRetries)
}

// formatNumber formats a number with commas (e.g., 47832 -> "47,832")
func formatNumber(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}

	s := strconv.Itoa(n)
	var result bytes.Buffer
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result.WriteByte(',')
		}
		result.WriteRune(c)
	}
	return result.String()
}

// formatDuration formats a duration as "Xh Ym Zs", dropping leading zero units
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
