package pages

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"estatedash/internal/app/dto"
	"estatedash/internal/domain/crawl"
)

type SettingsSource interface {
	Websites(ctx context.Context) ([]crawl.Website, error)
}

// Settings lists the crawler targets. Toggles and crawl controls are commands.
type Settings struct {
	source SettingsSource
	logger *slog.Logger
	guard  fetchGuard

	mu       sync.Mutex
	websites []crawl.Website
	err      error
	errors   widgetErrors
}

func NewSettings(source SettingsSource, logger *slog.Logger) *Settings {
	return &Settings{source: source, logger: loggerOrDefault(logger)}
}

func (s *Settings) Load(ctx context.Context) error {
	err := track(ctx, &s.mu, &s.guard, dto.WidgetWebsites, s.source.Websites, func(sites []crawl.Website, err error) {
		s.websites = settle(ctx, s.logger, &s.errors, "settings", dto.WidgetWebsites, MsgWebsitesFailed, sites, err)
		s.err = err
	})()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPageUnavailable, err)
	}
	return nil
}

func (s *Settings) View() dto.SettingsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := dto.SettingsView{
		Websites:     dto.MapCrawlerWebsites(s.websites),
		EnabledCount: len(crawl.EnabledNames(s.websites)),
		Errors:       s.errors.snapshot(),
	}
	if s.err != nil {
		view.Error = MsgWebsitesFailed
	}
	return view
}
