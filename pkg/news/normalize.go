package news

import (
	"encoding/json"
	"strings"

	"stockscout/internal/model"
)

// RawItem is one upstream news item in the shape its provider returned it.
// Supporting a new provider shape means adding a type here and a case in
// Normalize.
type RawItem interface {
	rawItem()
}

// YahooStreamItem is the nested shape current Yahoo Finance responses use:
// {"content": {"title": ..., "clickThroughUrl": {"url": ...}, "canonicalUrl": {"url": ...}}}.
type YahooStreamItem struct {
	Title           string
	ClickThroughURL string
	CanonicalURL    string
	Provider        string
}

// YahooFlatItem is the older flat shape: {"title": ..., "link": ..., "publisher": ...}.
type YahooFlatItem struct {
	Title     string
	Link      string
	Publisher string
}

type FinnhubItem struct {
	Headline string
	URL      string
	Source   string
}

type SearchItem struct {
	Title   string
	URL     string
	Snippet string
}

type FeedItem struct {
	Title string
	Link  string
}

func (YahooStreamItem) rawItem() {}
func (YahooFlatItem) rawItem()   {}
func (FinnhubItem) rawItem()     {}
func (SearchItem) rawItem()      {}
func (FeedItem) rawItem()        {}

// Normalize maps a provider item to a candidate. It reports false for items
// without a usable title and URL, and for shapes it does not know.
// SourceLabel is left for the calling adapter to fill.
func Normalize(item RawItem) (model.NewsCandidate, bool) {
	var title, link string

	switch it := item.(type) {
	case YahooStreamItem:
		title = it.Title
		link = it.ClickThroughURL
		if strings.TrimSpace(link) == "" {
			link = it.CanonicalURL
		}
	case YahooFlatItem:
		title, link = it.Title, it.Link
	case FinnhubItem:
		title, link = it.Headline, it.URL
	case SearchItem:
		title, link = it.Title, it.URL
		if strings.TrimSpace(title) == "" {
			title = "No Title"
		}
	case FeedItem:
		title, link = it.Title, it.Link
	default:
		return model.NewsCandidate{}, false
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return model.NewsCandidate{}, false
	}

	canonical, ok := model.CanonicalURL(link)
	if !ok {
		return model.NewsCandidate{}, false
	}

	return model.NewsCandidate{Title: title, URL: canonical}, true
}

type yahooURL struct {
	URL string `json:"url"`
}

type yahooRawItem struct {
	Content *struct {
		Title           string    `json:"title"`
		ClickThroughURL *yahooURL `json:"clickThroughUrl"`
		CanonicalURL    *yahooURL `json:"canonicalUrl"`
		Provider        *struct {
			DisplayName string `json:"displayName"`
		} `json:"provider"`
	} `json:"content"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Publisher string `json:"publisher"`
}

// DecodeYahooItem classifies one Yahoo Finance news element. It returns nil
// when the element matches neither known shape.
func DecodeYahooItem(data json.RawMessage) RawItem {
	var raw yahooRawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	if raw.Content != nil {
		item := YahooStreamItem{Title: raw.Content.Title}
		if raw.Content.ClickThroughURL != nil {
			item.ClickThroughURL = raw.Content.ClickThroughURL.URL
		}
		if raw.Content.CanonicalURL != nil {
			item.CanonicalURL = raw.Content.CanonicalURL.URL
		}
		if raw.Content.Provider != nil {
			item.Provider = raw.Content.Provider.DisplayName
		}
		return item
	}

	if raw.Title != "" && raw.Link != "" {
		return YahooFlatItem{Title: raw.Title, Link: raw.Link, Publisher: raw.Publisher}
	}

	return nil
}
