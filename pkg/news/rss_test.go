package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Markets</title>
  <link>https://feeds.example.com</link>
  <description>Market headlines</description>
  <item><title>Stocks rally on jobs data</title><link>https://example.com/rally</link></item>
  <item><title>Oil slips</title><link>https://example.com/oil</link></item>
  <item><title>Dollar steady</title><link>https://example.com/dollar</link></item>
</channel>
</rss>`

func TestRSSReaderItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssFeed))
	}))
	defer srv.Close()

	items, err := NewRSSReader(0).Items(context.Background(), srv.URL, 2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, FeedItem{Title: "Stocks rally on jobs data", Link: "https://example.com/rally"}, items[0])
}

func TestFeedSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssFeed))
	}))
	defer srv.Close()

	src := FeedSource{URL: srv.URL, Reader: NewRSSReader(0), Limit: 5}
	candidates, err := src.Fetch(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(candidates))
	assert.Equal(t, "rss:"+srv.URL, candidates[2].SourceLabel)
	assert.Equal(t, "https://example.com/dollar", candidates[2].URL)
}

func TestRSSReaderBadFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRSSReader(0).Items(context.Background(), srv.URL, 2)

	assert.NotEqual(t, nil, err)
}
