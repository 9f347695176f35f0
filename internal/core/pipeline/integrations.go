package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

const blogEntryLimit = 5

// Integrations renders the optional side-channel content (playlists, latest
// thought, blog feed) into prompt text. A failed or disabled integration
// contributes nothing; it never fails the chat request.
type Integrations struct {
	parser      *gofeed.Parser
	feedTimeout time.Duration
}

func NewIntegrations(feedTimeout time.Duration) *Integrations {
	if feedTimeout <= 0 {
		feedTimeout = 5 * time.Second
	}
	return &Integrations{
		parser:      gofeed.NewParser(),
		feedTimeout: feedTimeout,
	}
}

// BuildContext assembles the integration sections in fixed order: playlists,
// latest thought, blog. Empty when nothing is enabled or available.
func (in *Integrations) BuildContext(ctx context.Context, cfg models.BotConfig) string {
	var b strings.Builder

	if pl := cfg.Integrations.Playlists; pl.Enabled && len(pl.Playlists) > 0 {
		b.WriteString("## Playlists\n")
		for _, p := range pl.Playlists {
			fmt.Fprintf(&b, "- %s", p.Name)
			if p.Description != "" {
				fmt.Fprintf(&b, ": %s", p.Description)
			}
			if p.URL != "" {
				fmt.Fprintf(&b, " (%s)", p.URL)
			}
			b.WriteString("\n")
		}
	}

	if th := cfg.Integrations.LatestThought; th.Enabled && th.Text != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## Latest thought\n")
		b.WriteString(th.Text)
		b.WriteString("\n")
	}

	if blog := cfg.Integrations.Blog; blog.Enabled && blog.FeedURL != "" {
		if section := in.blogSection(ctx, blog.FeedURL); section != "" {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(section)
		}
	}

	return b.String()
}

// blogSection fetches and renders the feed. Network and parse failures are
// swallowed: the section just goes missing.
func (in *Integrations) blogSection(ctx context.Context, feedURL string) string {
	fetchCtx, cancel := context.WithTimeout(ctx, in.feedTimeout)
	defer cancel()

	feed, err := in.parser.ParseURLWithContext(feedURL, fetchCtx)
	if err != nil {
		slog.Warn("integrations: blog feed fetch failed", "url", feedURL, "error", err)
		return ""
	}
	if len(feed.Items) == 0 {
		return ""
	}

	items := feed.Items
	if len(items) > blogEntryLimit {
		items = items[:blogEntryLimit]
	}

	var b strings.Builder
	b.WriteString("## Recent blog posts\n")
	for _, item := range items {
		fmt.Fprintf(&b, "- %s", item.Title)
		if item.Published != "" {
			fmt.Fprintf(&b, " (%s)", item.Published)
		}
		if item.Link != "" {
			fmt.Fprintf(&b, " — %s", item.Link)
		}
		b.WriteString("\n")
	}
	return b.String()
}
