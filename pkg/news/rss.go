package news

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

type RSSReader struct {
	parser *gofeed.Parser
}

func NewRSSReader(timeout time.Duration) *RSSReader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = BrowserUserAgent
	return &RSSReader{parser: parser}
}

// Items returns at most limit entries of the feed at feedURL, newest first as
// published by the feed.
func (r *RSSReader) Items(ctx context.Context, feedURL string, limit int) ([]RawItem, error) {
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}

	count := len(feed.Items)
	if limit > 0 && limit < count {
		count = limit
	}

	items := make([]RawItem, 0, count)
	for _, item := range feed.Items[:count] {
		items = append(items, FeedItem{Title: item.Title, Link: item.Link})
	}

	return items, nil
}
