// Package pages holds one controller per dashboard route. A controller owns the
// page state (filters, sort, current page, mode), loads every widget of the
// page concurrently and renders the page view. Controllers live as long as the
// request that created them.
package pages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Messages shown in place of a widget whose data could not be loaded.
const (
	MsgLoadFailed        = "Không thể tải dữ liệu"
	MsgSummaryFailed     = "Không thể tải dữ liệu summary"
	MsgTrendFailed       = "Không thể tải dữ liệu trend"
	MsgWebsitesFailed    = "Không thể tải danh sách website"
	MsgValuationFailed   = "Không thể định giá"
	MsgHistoryFailed     = "Không thể tải lịch sử định giá"
	MsgFilterFailed      = "Không thể lọc dữ liệu"
	MsgTimelineFailed    = "Không thể tải dữ liệu timeline"
	MsgTimelinePriceFail = "Không thể tải giá trung bình theo thời gian"
)

// ErrPageUnavailable is returned by Load when the data the whole page depends on
// could not be fetched. The view still renders, carrying the message.
var ErrPageUnavailable = errors.New("pages: page data unavailable")

// fetchGuard hands out a monotonically increasing token per resource. Only the
// response of the latest fetch of a resource may update the page state.
type fetchGuard struct {
	mu     sync.Mutex
	latest map[string]*atomic.Uint64
}

func (g *fetchGuard) counter(resource string) *atomic.Uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		g.latest = make(map[string]*atomic.Uint64)
	}
	c, ok := g.latest[resource]
	if !ok {
		c = new(atomic.Uint64)
		g.latest[resource] = c
	}
	return c
}

func (g *fetchGuard) begin(resource string) uint64 {
	return g.counter(resource).Add(1)
}

func (g *fetchGuard) isLatest(resource string, token uint64) bool {
	return g.counter(resource).Load() == token
}

// track starts a fetch of resource and returns the goroutine body that runs it.
// apply is called with the outcome under mu, unless a newer fetch of the same
// resource was started in the meantime. The body returns the fetch error of a
// latest fetch; a superseded fetch returns nil.
func track[T any](ctx context.Context, mu *sync.Mutex, guard *fetchGuard, resource string, call func(context.Context) (T, error), apply func(T, error)) func() error {
	token := guard.begin(resource)
	return func() error {
		value, err := call(ctx)
		mu.Lock()
		defer mu.Unlock()
		if !guard.isLatest(resource, token) {
			return nil
		}
		apply(value, err)
		return err
	}
}

// widgetLoader runs the widget fetches of a page whose widgets stand alone.
// A partial failure renders with per-widget messages; the page is only
// unavailable when every widget failed.
type widgetLoader struct {
	g       errgroup.Group
	mu      sync.Mutex
	started int
	failed  []error
}

func (l *widgetLoader) Go(fetch func() error) {
	l.started++
	l.g.Go(func() error {
		err := fetch()
		if err != nil {
			l.mu.Lock()
			l.failed = append(l.failed, err)
			l.mu.Unlock()
		}
		return err
	})
}

func (l *widgetLoader) Wait() error {
	_ = l.g.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started == 0 || len(l.failed) < l.started {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPageUnavailable, errors.Join(l.failed...))
}

type widgetErrors map[string]string

func (w *widgetErrors) set(widget, message string) {
	if *w == nil {
		*w = make(widgetErrors)
	}
	(*w)[widget] = message
}

func (w widgetErrors) clear(widget string) {
	delete(w, widget)
}

func (w widgetErrors) snapshot() map[string]string {
	if len(w) == 0 {
		return nil
	}
	out := make(map[string]string, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

func logFetchFailure(ctx context.Context, logger *slog.Logger, page, widget string, err error) {
	logger.WarnContext(ctx, "page fetch failed", "page", page, "widget", widget, "error", err)
}

// settle records the outcome of a widget fetch and returns the rows to keep.
// A failed widget keeps nothing and shows message instead.
func settle[T any](ctx context.Context, logger *slog.Logger, errs *widgetErrors, page, widget, message string, rows []T, err error) []T {
	if err != nil {
		logFetchFailure(ctx, logger, page, widget, err)
		errs.set(widget, message)
		return nil
	}
	errs.clear(widget)
	return rows
}
