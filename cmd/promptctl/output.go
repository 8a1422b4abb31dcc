package main

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/migration"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// render writes data in the selected format. table prints the human form.
func (c *cli) render(data any, table func()) error {
	switch c.output {
	case outputTable, "":
		table()
		return nil
	case outputJSON:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case outputYAML:
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", c.output)
	}
}

type userView struct {
	ID        string `json:"id" yaml:"id"`
	Email     string `json:"email" yaml:"email"`
	Name      string `json:"name" yaml:"name"`
	Avatar    string `json:"avatar" yaml:"avatar"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
}

func newUserView(u *domain.User) userView {
	return userView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: formatMillis(u.CreatedAt),
	}
}

type promptView struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Content   string   `json:"content" yaml:"content"`
	Tags      []string `json:"tags" yaml:"tags"`
	Category  string   `json:"category" yaml:"category"`
	OwnerID   string   `json:"owner_id" yaml:"owner_id"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
}

func newPromptView(p domain.Prompt) promptView {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return promptView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      tags,
		Category:  p.Category,
		OwnerID:   p.OwnerID,
		CreatedAt: formatMillis(p.CreatedAt),
	}
}

func newPromptViews(prompts []domain.Prompt) []promptView {
	out := make([]promptView, len(prompts))
	for i, p := range prompts {
		out[i] = newPromptView(p)
	}
	return out
}

type migrationView struct {
	OwnerID  string `json:"owner_id" yaml:"owner_id"`
	Total    int    `json:"total" yaml:"total"`
	Migrated int    `json:"migrated" yaml:"migrated"`
	Skipped  int    `json:"skipped" yaml:"skipped"`
	Message  string `json:"message" yaml:"message"`
}

func newMigrationView(r *domain.MigrationResult) migrationView {
	return migrationView{
		OwnerID:  r.OwnerID,
		Total:    r.Total,
		Migrated: r.Migrated,
		Skipped:  r.Skipped,
		Message:  r.Message,
	}
}

type statusView struct {
	Marker     string `json:"marker" yaml:"marker"`
	LocalCount int    `json:"local_count" yaml:"local_count"`
	Eligible   bool   `json:"eligible" yaml:"eligible"`
}

func newStatusView(s migration.Status) statusView {
	return statusView{
		Marker:     s.Marker.String(),
		LocalCount: s.LocalCount,
		Eligible:   s.Eligible,
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
