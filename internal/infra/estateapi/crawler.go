package estateapi

import (
	"context"
	"net/url"
	"strconv"

	"estatedash/internal/domain/crawl"
)

type namesBody struct {
	Names []string `json:"names"`
}

// Websites returns the crawler target registry.
func (c *Client) Websites(ctx context.Context) ([]crawl.Website, error) {
	return getJSON[[]crawl.Website](ctx, c, "websites", "/websites", nil)
}

func (c *Client) EnableWebsites(ctx context.Context, names []string) (crawl.Ack, error) {
	return postJSON[crawl.Ack](ctx, c, "enable websites", "/websites/enable", nil, namesBody{Names: names})
}

func (c *Client) DisableWebsites(ctx context.Context, names []string) (crawl.Ack, error) {
	return postJSON[crawl.Ack](ctx, c, "disable websites", "/websites/disable", nil, namesBody{Names: names})
}

// CrawlNow triggers an asynchronous crawl of the given websites.
func (c *Client) CrawlNow(ctx context.Context, websites []string) (crawl.Ack, error) {
	q := url.Values{}
	for _, site := range websites {
		q.Add("websites", site)
	}
	return postJSON[crawl.Ack](ctx, c, "crawl now", "/crawl_now", q, nil)
}

func (c *Client) StopCrawl(ctx context.Context) (crawl.Ack, error) {
	return postJSON[crawl.Ack](ctx, c, "stop crawl", "/stop_now", nil, nil)
}

func (c *Client) ScheduleCrawl(ctx context.Context, hours int) (crawl.Ack, error) {
	q := url.Values{"hours": {strconv.Itoa(hours)}}
	return postJSON[crawl.Ack](ctx, c, "schedule crawl", "/schedule_crawl", q, nil)
}
