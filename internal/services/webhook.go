package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prasetyodamongi/sp-fs-prasetyo-damongi/internal/models"
)

// Notifier announces roster changes to chat channels. Failures are reported to
// the caller, who logs them; they never undo the change.
type Notifier interface {
	MemberInvited(ctx context.Context, project models.Project, member models.User) error
	MemberRemoved(ctx context.Context, project models.Project, member models.User, reassigned int64) error
}

type NoopNotifier struct{}

func (NoopNotifier) MemberInvited(context.Context, models.Project, models.User) error { return nil }

func (NoopNotifier) MemberRemoved(context.Context, models.Project, models.User, int64) error {
	return nil
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordFooter struct {
	Text string `json:"text"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []discordField `json:"fields"`
	Footer      *discordFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp"`
}

type discordMessage struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Fields    []slackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type slackMessage struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

const (
	ColorGreen  = 65280    // #00FF00 - member joined
	ColorOrange = 16753920 // #FFA500 - member left

	WebhookUsername = "Taskboard"
)

// WebhookNotifier posts to a Discord and/or Slack incoming webhook. An empty
// URL disables that channel.
type WebhookNotifier struct {
	discordURL string
	slackURL   string
	client     *http.Client
	now        func() time.Time
}

func NewWebhookNotifier(discordURL, slackURL string) *WebhookNotifier {
	return &WebhookNotifier{
		discordURL: discordURL,
		slackURL:   slackURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		now:        time.Now,
	}
}

// Enabled reports whether at least one channel is configured.
func (n *WebhookNotifier) Enabled() bool {
	return n.discordURL != "" || n.slackURL != ""
}

func (n *WebhookNotifier) MemberInvited(ctx context.Context, project models.Project, member models.User) error {
	who := displayName(member)

	if n.discordURL != "" {
		payload := discordMessage{
			Username: WebhookUsername,
			Embeds: []discordEmbed{
				{
					Title:       "Member added",
					Description: fmt.Sprintf("**%s** joined **%s**.", who, project.Name),
					Color:       ColorGreen,
					Fields: []discordField{
						{Name: "Project", Value: project.Name, Inline: true},
						{Name: "Member", Value: member.Email, Inline: true},
					},
					Footer:    &discordFooter{Text: "Project ID: " + project.ID},
					Timestamp: n.now().Format(time.RFC3339),
				},
			},
		}
		if err := n.post(ctx, n.discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		payload := slackMessage{
			Username: WebhookUsername,
			Text:     fmt.Sprintf("*%s* joined *%s*", who, project.Name),
			Attachments: []slackAttachment{
				{
					Color: "good",
					Title: "Member added",
					Fields: []slackField{
						{Title: "Project", Value: project.Name, Short: true},
						{Title: "Member", Value: member.Email, Short: true},
					},
					Footer:    "Project ID: " + project.ID,
					Timestamp: n.now().Unix(),
				},
			},
		}
		if err := n.post(ctx, n.slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func (n *WebhookNotifier) MemberRemoved(ctx context.Context, project models.Project, member models.User, reassigned int64) error {
	who := displayName(member)
	tasks := fmt.Sprintf("%d", reassigned)

	if n.discordURL != "" {
		payload := discordMessage{
			Username: WebhookUsername,
			Embeds: []discordEmbed{
				{
					Title:       "Member removed",
					Description: fmt.Sprintf("**%s** left **%s**.", who, project.Name),
					Color:       ColorOrange,
					Fields: []discordField{
						{Name: "Project", Value: project.Name, Inline: true},
						{Name: "Member", Value: who, Inline: true},
						{Name: "Tasks returned to owner", Value: tasks, Inline: true},
					},
					Footer:    &discordFooter{Text: "Project ID: " + project.ID},
					Timestamp: n.now().Format(time.RFC3339),
				},
			},
		}
		if err := n.post(ctx, n.discordURL, payload); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.slackURL != "" {
		payload := slackMessage{
			Username: WebhookUsername,
			Text:     fmt.Sprintf("*%s* left *%s*", who, project.Name),
			Attachments: []slackAttachment{
				{
					Color: "warning",
					Title: "Member removed",
					Fields: []slackField{
						{Title: "Project", Value: project.Name, Short: true},
						{Title: "Member", Value: who, Short: true},
						{Title: "Tasks returned to owner", Value: tasks, Short: true},
					},
					Footer:    "Project ID: " + project.ID,
					Timestamp: n.now().Unix(),
				},
			},
		}
		if err := n.post(ctx, n.slackURL, payload); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func (n *WebhookNotifier) post(ctx context.Context, url string, payload interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func displayName(u models.User) string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	}
	return u.ID
}
