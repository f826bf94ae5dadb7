package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"estatedash/internal/app/commands"
	"estatedash/internal/app/dto"
	"estatedash/internal/app/outbox"
	"estatedash/internal/app/policies"
	"estatedash/internal/app/queries"
	"estatedash/internal/domain/listings"
)

const (
	exportListingsKey   = "reports.export_listings"
	downloadListingsKey = "reports.download_listings"

	// ContentTypeXLSX is the media type of rendered workbooks.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrStoreNotConfigured = errors.New("reports: report storage is not configured")

// ListingSource loads the listing collection to export.
type ListingSource interface {
	Properties(ctx context.Context) ([]listings.Listing, error)
}

// WorkbookRenderer turns listings into an xlsx workbook.
type WorkbookRenderer interface {
	RenderListings(items []listings.Listing) ([]byte, error)
}

// Selection is the filtered, sorted listing set to export. Pagination does not apply.
type Selection struct {
	Criteria listings.FilterCriteria
	Sort     string
}

func (s Selection) Validate() error {
	if err := s.Criteria.Validate(); err != nil {
		return err
	}
	_, err := listings.ParseSortKey(s.Sort)
	return err
}

// DownloadListingsQuery renders the selection for direct download.
type DownloadListingsQuery struct {
	Selection
}

func (q DownloadListingsQuery) Key() string { return downloadListingsKey }

// ExportListingsCommand renders the selection and keeps it in report storage.
type ExportListingsCommand struct {
	Selection
	Now time.Time
}

func (c ExportListingsCommand) Key() string { return exportListingsKey }

type Handler struct {
	Listings ListingSource
	Renderer WorkbookRenderer
	Store    policies.ReportStore
	Logger   *slog.Logger
}

func (h *Handler) HandleDownload(ctx context.Context, q DownloadListingsQuery) (dto.ReportFile, error) {
	data, rows, err := h.render(ctx, q.Selection)
	if err != nil {
		return dto.ReportFile{}, err
	}
	return dto.ReportFile{
		Name:        fileName(time.Now()),
		ContentType: ContentTypeXLSX,
		Data:        data,
		Rows:        rows,
	}, nil
}

func (h *Handler) HandleExport(ctx context.Context, cmd ExportListingsCommand) (dto.ReportResult, error) {
	if h.Store == nil {
		return dto.ReportResult{}, ErrStoreNotConfigured
	}
	now := cmd.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	data, rows, err := h.render(ctx, cmd.Selection)
	if err != nil {
		return dto.ReportResult{}, err
	}

	reportID := uuid.NewString()
	name := fileName(now)
	url, err := h.Store.Upload(ctx, "reports/"+reportID+"/"+name, bytes.NewReader(data), ContentTypeXLSX)
	if err != nil {
		return dto.ReportResult{}, fmt.Errorf("reports: upload: %w", err)
	}

	sortKey, _ := listings.ParseSortKey(cmd.Sort)
	ev := listings.ReportExported{
		ReportID: reportID,
		Rows:     rows,
		Criteria: cmd.Criteria.Normalized(),
		Sort:     sortKey,
		URL:      url,
		At:       now,
	}
	outbox.Raise(ctx, ev)
	if h.Logger != nil {
		h.Logger.Info("listings report exported", "report_id", reportID, "rows", rows, "url", url)
	}
	return dto.ReportResult{ReportID: reportID, FileName: name, Rows: rows, URL: url}, nil
}

func (h *Handler) render(ctx context.Context, sel Selection) ([]byte, int, error) {
	if h.Listings == nil || h.Renderer == nil {
		return nil, 0, errors.New("reports: handler not configured")
	}
	sortKey, err := listings.ParseSortKey(sel.Sort)
	if err != nil {
		return nil, 0, err
	}
	items, err := h.Listings.Properties(ctx)
	if err != nil {
		return nil, 0, err
	}
	selected := listings.Filter(items, sel.Criteria)
	listings.Sort(selected, sortKey)
	data, err := h.Renderer.RenderListings(selected)
	if err != nil {
		return nil, 0, fmt.Errorf("reports: render: %w", err)
	}
	return data, len(selected), nil
}

func fileName(at time.Time) string {
	return "danh-sach-bds-" + at.Format("20060102-150405") + ".xlsx"
}

// Register wires the export command and the download query.
func Register(cmdBus *commands.InMemoryBus, queryBus *queries.InMemoryBus, h *Handler) {
	commands.Register[ExportListingsCommand, dto.ReportResult](cmdBus, commands.HandlerFunc[ExportListingsCommand, dto.ReportResult](h.HandleExport))
	queries.Register[DownloadListingsQuery, dto.ReportFile](queryBus, queries.HandlerFunc[DownloadListingsQuery, dto.ReportFile](h.HandleDownload))
}
