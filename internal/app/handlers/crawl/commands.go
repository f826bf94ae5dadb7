package crawl

import (
	"context"
	"log/slog"
	"time"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/outbox"
	domaincrawl "estatedash/internal/domain/crawl"
)

const (
	toggleWebsitesKey = "crawl.toggle_websites"
	runKey            = "crawl.run"
	stopKey           = "crawl.stop"
	scheduleKey       = "crawl.schedule"
)

// Controller is the crawler control surface of the scraper backend.
type Controller interface {
	Websites(ctx context.Context) ([]domaincrawl.Website, error)
	EnableWebsites(ctx context.Context, names []string) (domaincrawl.Ack, error)
	DisableWebsites(ctx context.Context, names []string) (domaincrawl.Ack, error)
	CrawlNow(ctx context.Context, websites []string) (domaincrawl.Ack, error)
	StopCrawl(ctx context.Context) (domaincrawl.Ack, error)
	ScheduleCrawl(ctx context.Context, hours int) (domaincrawl.Ack, error)
}

// ToggleWebsitesCommand enables or disables crawler targets.
type ToggleWebsitesCommand struct {
	Names  []string
	Enable bool
}

func (c ToggleWebsitesCommand) Key() string     { return toggleWebsitesKey }
func (c ToggleWebsitesCommand) Validate() error { return domaincrawl.ValidateNames(c.Names) }

// RunCommand starts a crawl now. Without websites every enabled target is crawled.
type RunCommand struct {
	Websites        []string
	IdempotencyKeyV string
}

func (c RunCommand) Key() string            { return runKey }
func (c RunCommand) IdempotencyKey() string { return c.IdempotencyKeyV }
func (c RunCommand) ResultPrototype() any   { return &dto.CrawlAck{} }

type StopCommand struct{}

func (c StopCommand) Key() string { return stopKey }

// ScheduleCommand sets the crawl interval in hours.
type ScheduleCommand struct {
	Hours int
}

func (c ScheduleCommand) Key() string     { return scheduleKey }
func (c ScheduleCommand) Validate() error { return domaincrawl.ValidateSchedule(c.Hours) }

// Handler forwards crawler controls and records them as activity.
type Handler struct {
	Crawler Controller
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *Handler) HandleToggle(ctx context.Context, cmd ToggleWebsitesCommand) (dto.CrawlAck, error) {
	names := domaincrawl.NormalizeNames(cmd.Names)
	var (
		ack domaincrawl.Ack
		err error
	)
	if cmd.Enable {
		ack, err = h.Crawler.EnableWebsites(ctx, names)
	} else {
		ack, err = h.Crawler.DisableWebsites(ctx, names)
	}
	if err != nil {
		return dto.CrawlAck{}, err
	}
	outbox.Raise(ctx, domaincrawl.NewWebsitesToggled(names, cmd.Enable, h.now()))
	out := dto.MapAck(ack)
	out.Websites = names
	return out, nil
}

func (h *Handler) HandleRun(ctx context.Context, cmd RunCommand) (dto.CrawlAck, error) {
	websites := domaincrawl.NormalizeNames(cmd.Websites)
	if len(websites) == 0 {
		sites, err := h.Crawler.Websites(ctx)
		if err != nil {
			return dto.CrawlAck{}, err
		}
		websites = domaincrawl.EnabledNames(sites)
	}
	if len(websites) == 0 {
		return dto.CrawlAck{}, domaincrawl.ErrNoWebsites
	}
	ack, err := h.Crawler.CrawlNow(ctx, websites)
	if err != nil {
		return dto.CrawlAck{}, err
	}
	outbox.Raise(ctx, domaincrawl.NewRequested(websites, h.now()))
	if h.Logger != nil {
		h.Logger.Info("crawl requested", "websites", websites)
	}
	out := dto.MapAck(ack)
	out.Websites = websites
	return out, nil
}

func (h *Handler) HandleStop(ctx context.Context, _ StopCommand) (dto.CrawlAck, error) {
	ack, err := h.Crawler.StopCrawl(ctx)
	if err != nil {
		return dto.CrawlAck{}, err
	}
	outbox.Raise(ctx, domaincrawl.NewStopped(h.now()))
	return dto.MapAck(ack), nil
}

func (h *Handler) HandleSchedule(ctx context.Context, cmd ScheduleCommand) (dto.CrawlAck, error) {
	ack, err := h.Crawler.ScheduleCrawl(ctx, cmd.Hours)
	if err != nil {
		return dto.CrawlAck{}, err
	}
	outbox.Raise(ctx, domaincrawl.NewScheduled(cmd.Hours, h.now()))
	out := dto.MapAck(ack)
	out.Hours = cmd.Hours
	return out, nil
}

// Register wires every crawler command.
func Register(bus *commands.InMemoryBus, h *Handler) {
	commands.Register[ToggleWebsitesCommand, dto.CrawlAck](bus, commands.HandlerFunc[ToggleWebsitesCommand, dto.CrawlAck](h.HandleToggle))
	commands.Register[RunCommand, dto.CrawlAck](bus, commands.HandlerFunc[RunCommand, dto.CrawlAck](h.HandleRun))
	commands.Register[StopCommand, dto.CrawlAck](bus, commands.HandlerFunc[StopCommand, dto.CrawlAck](h.HandleStop))
	commands.Register[ScheduleCommand, dto.CrawlAck](bus, commands.HandlerFunc[ScheduleCommand, dto.CrawlAck](h.HandleSchedule))
}
