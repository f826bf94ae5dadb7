package crawl

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/middleware"
	"estatedash/internal/app/outbox"
	domaincrawl "estatedash/internal/domain/crawl"
)

type fakeCrawler struct {
	sites     []domaincrawl.Website
	enabled   []string
	disabled  []string
	crawled   [][]string
	stopped   int
	scheduled []int
	err       error
}

func (f *fakeCrawler) Websites(context.Context) ([]domaincrawl.Website, error) {
	return f.sites, f.err
}

func (f *fakeCrawler) EnableWebsites(_ context.Context, names []string) (domaincrawl.Ack, error) {
	f.enabled = append(f.enabled, names...)
	return domaincrawl.Ack{Message: "enabled"}, f.err
}

func (f *fakeCrawler) DisableWebsites(_ context.Context, names []string) (domaincrawl.Ack, error) {
	f.disabled = append(f.disabled, names...)
	return domaincrawl.Ack{Message: "disabled"}, f.err
}

func (f *fakeCrawler) CrawlNow(_ context.Context, websites []string) (domaincrawl.Ack, error) {
	if f.err != nil {
		return domaincrawl.Ack{}, f.err
	}
	f.crawled = append(f.crawled, websites)
	return domaincrawl.Ack{Message: "started", Status: "running"}, nil
}

func (f *fakeCrawler) StopCrawl(context.Context) (domaincrawl.Ack, error) {
	f.stopped++
	return domaincrawl.Ack{Message: "stopped"}, f.err
}

func (f *fakeCrawler) ScheduleCrawl(_ context.Context, hours int) (domaincrawl.Ack, error) {
	f.scheduled = append(f.scheduled, hours)
	return domaincrawl.Ack{Message: "scheduled"}, f.err
}

type mapIdempotency map[string]middleware.IdempotencyRecord

func (m mapIdempotency) Get(_ context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	rec, ok := m[key]
	return rec, ok, nil
}

func (m mapIdempotency) Save(_ context.Context, rec middleware.IdempotencyRecord) error {
	m[rec.Key] = rec
	return nil
}

type recordingOutbox struct {
	names []string
}

func (r *recordingOutbox) Add(_ context.Context, rec outbox.EventRecord) error {
	r.names = append(r.names, rec.Name)
	return nil
}

func newBus(crawler *fakeCrawler, box *recordingOutbox) commands.Bus {
	bus := commands.NewInMemoryBus()
	Register(bus, &Handler{
		Crawler: crawler,
		Now:     func() time.Time { return time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC) },
	})
	return middleware.ChainCommands(bus,
		middleware.Validation(middleware.MessageValidator{}),
		middleware.Idempotency(mapIdempotency{}, nil),
		middleware.ActivityRecording(box, nil),
	)
}

func TestToggleWebsites(t *testing.T) {
	crawler := &fakeCrawler{}
	box := &recordingOutbox{}
	bus := newBus(crawler, box)

	ack, err := commands.Dispatch[ToggleWebsitesCommand, dto.CrawlAck](context.Background(), bus, ToggleWebsitesCommand{Names: []string{" nhatot ", "nhatot", "alonhadat"}, Enable: true})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !reflect.DeepEqual(crawler.enabled, []string{"nhatot", "alonhadat"}) || ack.Message != "enabled" {
		t.Fatalf("enabled = %v ack = %+v", crawler.enabled, ack)
	}
	if _, err := commands.Dispatch[ToggleWebsitesCommand, dto.CrawlAck](context.Background(), bus, ToggleWebsitesCommand{Names: []string{"nhatot"}}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if !reflect.DeepEqual(box.names, []string{"websites.enabled", "websites.disabled"}) {
		t.Fatalf("activity = %v", box.names)
	}

	_, err = commands.Dispatch[ToggleWebsitesCommand, dto.CrawlAck](context.Background(), bus, ToggleWebsitesCommand{Names: []string{" "}})
	if !errors.Is(err, domaincrawl.ErrNoWebsites) {
		t.Fatalf("expected ErrNoWebsites, got %v", err)
	}
}

func TestRunDefaultsToEnabledWebsites(t *testing.T) {
	crawler := &fakeCrawler{sites: []domaincrawl.Website{
		{Name: "nhatot", Enabled: true},
		{Name: "batdongsan", Enabled: false},
		{Name: "alonhadat", Enabled: true},
	}}
	bus := newBus(crawler, &recordingOutbox{})

	ack, err := commands.Dispatch[RunCommand, dto.CrawlAck](context.Background(), bus, RunCommand{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{"alonhadat", "nhatot"}
	if !reflect.DeepEqual(crawler.crawled[0], want) || !reflect.DeepEqual(ack.Websites, want) {
		t.Fatalf("crawled = %v ack = %+v", crawler.crawled, ack)
	}

	none := newBus(&fakeCrawler{}, &recordingOutbox{})
	if _, err := commands.Dispatch[RunCommand, dto.CrawlAck](context.Background(), none, RunCommand{}); !errors.Is(err, domaincrawl.ErrNoWebsites) {
		t.Fatalf("expected ErrNoWebsites, got %v", err)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	crawler := &fakeCrawler{}
	box := &recordingOutbox{}
	bus := newBus(crawler, box)

	cmd := RunCommand{Websites: []string{"nhatot"}, IdempotencyKeyV: "run-1"}
	first, err := commands.Dispatch[RunCommand, dto.CrawlAck](context.Background(), bus, cmd)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := commands.Dispatch[RunCommand, dto.CrawlAck](context.Background(), bus, cmd)
	if err != nil {
		t.Fatalf("replayed run: %v", err)
	}
	if len(crawler.crawled) != 1 || len(box.names) != 1 {
		t.Fatalf("crawl triggered %d times, %d events", len(crawler.crawled), len(box.names))
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("replay = %+v, want %+v", second, first)
	}
}

func TestStopAndSchedule(t *testing.T) {
	crawler := &fakeCrawler{}
	box := &recordingOutbox{}
	bus := newBus(crawler, box)

	if _, err := commands.Dispatch[StopCommand, dto.CrawlAck](context.Background(), bus, StopCommand{}); err != nil {
		t.Fatalf("stop: %v", err)
	}
	ack, err := commands.Dispatch[ScheduleCommand, dto.CrawlAck](context.Background(), bus, ScheduleCommand{Hours: 6})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if crawler.stopped != 1 || !reflect.DeepEqual(crawler.scheduled, []int{6}) || ack.Hours != 6 {
		t.Fatalf("crawler = %+v ack = %+v", crawler, ack)
	}
	for _, hours := range []int{0, -3, 10_000} {
		if _, err := commands.Dispatch[ScheduleCommand, dto.CrawlAck](context.Background(), bus, ScheduleCommand{Hours: hours}); !errors.Is(err, domaincrawl.ErrInvalidSchedule) {
			t.Fatalf("hours=%d: expected ErrInvalidSchedule, got %v", hours, err)
		}
	}
	if !reflect.DeepEqual(box.names, []string{"crawl.stopped", "crawl.scheduled"}) {
		t.Fatalf("activity = %v", box.names)
	}
}

func TestUpstreamFailurePropagates(t *testing.T) {
	boom := errors.New("scraper down")
	box := &recordingOutbox{}
	bus := newBus(&fakeCrawler{err: boom}, box)
	if _, err := commands.Dispatch[RunCommand, dto.CrawlAck](context.Background(), bus, RunCommand{Websites: []string{"x"}}); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(box.names) != 0 {
		t.Fatalf("activity recorded for a failed command: %v", box.names)
	}
}
