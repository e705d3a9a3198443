package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// searchResponse mirrors the news slice of the search payload.
type searchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
		Thumbnail           *struct {
			Resolutions []struct {
				URL string `json:"url"`
			} `json:"resolutions"`
		} `json:"thumbnail"`
	} `json:"news"`
}

// FetchNews returns recent headlines for a ticker via the search
// endpoint. Best-effort: any failure yields an empty list, never an
// error, matching how the dashboard renders an empty feed.
func (c *Client) FetchNews(ctx context.Context, ticker string, count int) []NewsItem {
	if count <= 0 {
		count = 10
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	searchURL := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=0&newsCount=%d",
		c.baseURL, url.QueryEscape(ticker), count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}

	items := make([]NewsItem, 0, len(payload.News))
	for _, n := range payload.News {
		item := NewsItem{
			Title:       n.Title,
			Publisher:   n.Publisher,
			Link:        n.Link,
			PublishedAt: n.ProviderPublishTime,
		}
		if n.Thumbnail != nil && len(n.Thumbnail.Resolutions) > 0 {
			item.Thumbnail = n.Thumbnail.Resolutions[0].URL
		}
		items = append(items, item)
	}
	return items
}
