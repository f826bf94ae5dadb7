package dto

import "estatedash/internal/domain/crawl"

type CrawlAck struct {
	Message  string   `json:"message"`
	Status   string   `json:"status,omitempty"`
	Websites []string `json:"websites,omitempty"`
	Hours    int      `json:"hours,omitempty"`
}

func MapAck(ack crawl.Ack) CrawlAck {
	return CrawlAck{Message: ack.Message, Status: ack.Status}
}

type WebsiteRow struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

type SettingsView struct {
	Websites     []WebsiteRow      `json:"websites"`
	EnabledCount int               `json:"enabled_count"`
	Error        string            `json:"error,omitempty"`
	Errors       map[string]string `json:"errors,omitempty"`
}

func MapCrawlerWebsites(sites []crawl.Website) []WebsiteRow {
	out := make([]WebsiteRow, 0, len(sites))
	for _, site := range sites {
		out = append(out, WebsiteRow{Name: site.Name, URL: site.URL, Enabled: site.Enabled})
	}
	return out
}
