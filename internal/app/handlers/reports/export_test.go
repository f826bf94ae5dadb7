package reports

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/middleware"
	"estatedash/internal/app/outbox"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/listings"
)

type staticListings []listings.Listing

func (s staticListings) Properties(context.Context) ([]listings.Listing, error) { return s, nil }

type captureRenderer struct {
	ids []string
}

func (c *captureRenderer) RenderListings(items []listings.Listing) ([]byte, error) {
	c.ids = c.ids[:0]
	for _, item := range items {
		c.ids = append(c.ids, item.ID)
	}
	return []byte("xlsx:" + strings.Join(c.ids, ",")), nil
}

type memoryStore struct {
	key         string
	contentType string
	body        string
}

func (m *memoryStore) Upload(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.key, m.contentType, m.body = key, contentType, string(data)
	return "http://minio.local/reports/" + key, nil
}

func sample() staticListings {
	return staticListings{
		{ID: "1", City: "Hà Nội", Price: 3_000_000_000},
		{ID: "2", City: "TP.HCM", Price: 900_000_000},
		{ID: "3", City: "Hồ Chí Minh", Price: 5_000_000_000},
	}
}

func TestDownloadRendersFilteredSortedSelection(t *testing.T) {
	renderer := &captureRenderer{}
	h := &Handler{Listings: sample(), Renderer: renderer}
	bus := queries.NewInMemoryBus()
	Register(commands.NewInMemoryBus(), bus, h)
	asked := middleware.ChainQueries(bus, middleware.QueryValidation(middleware.MessageValidator{}))

	file, err := queries.Ask[DownloadListingsQuery, dto.ReportFile](context.Background(), asked, DownloadListingsQuery{
		Selection: Selection{Criteria: listings.FilterCriteria{City: "hcm"}, Sort: "price_desc"},
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if string(file.Data) != "xlsx:3,2" || file.Rows != 2 || file.ContentType != ContentTypeXLSX {
		t.Fatalf("file = %+v (%s)", file, file.Data)
	}
	if !strings.HasSuffix(file.Name, ".xlsx") {
		t.Fatalf("name = %q", file.Name)
	}

	_, err = queries.Ask[DownloadListingsQuery, dto.ReportFile](context.Background(), asked, DownloadListingsQuery{
		Selection: Selection{Criteria: listings.FilterCriteria{PriceBucket: "1-2"}},
	})
	if !errors.Is(err, listings.ErrUnknownPriceBucket) {
		t.Fatalf("expected ErrUnknownPriceBucket, got %v", err)
	}
}

func TestExportUploadsAndRecordsActivity(t *testing.T) {
	store := &memoryStore{}
	h := &Handler{Listings: sample(), Renderer: &captureRenderer{}, Store: store}

	ctx, recorder := outbox.WithRecorder(context.Background())
	res, err := h.HandleExport(ctx, ExportListingsCommand{Selection: Selection{Sort: "price_asc"}})
	if err != nil {
		t.Fatalf("HandleExport: %v", err)
	}
	if res.Rows != 3 || res.URL == "" || !strings.HasPrefix(store.key, "reports/"+res.ReportID+"/") {
		t.Fatalf("result = %+v key = %q", res, store.key)
	}
	if store.body != "xlsx:2,1,3" || store.contentType != ContentTypeXLSX {
		t.Fatalf("stored %q (%s)", store.body, store.contentType)
	}
	raised := recorder.PendingEvents()
	if len(raised) != 1 || raised[0].EventName() != "report.exported" || raised[0].AggregateID() != res.ReportID {
		t.Fatalf("activity = %+v", raised)
	}
}

func TestExportWithoutStore(t *testing.T) {
	h := &Handler{Listings: sample(), Renderer: &captureRenderer{}}
	if _, err := h.HandleExport(context.Background(), ExportListingsCommand{}); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured, got %v", err)
	}
}
