// Package export renders listing selections as Excel workbooks.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"estatedash/internal/domain/listings"
	"estatedash/internal/domain/shared/format"
)

const SheetListings = "Danh sách"

var listingHeader = []any{
	"STT", "Tiêu đề", "Địa chỉ", "Thành phố", "Loại hình", "Giá (VNĐ)", "Diện tích (m²)",
	"Đơn giá", "Phòng ngủ", "Phòng tắm", "Pháp lý", "Người bán", "Số điện thoại",
	"Ngày đăng", "Nguồn", "Link",
}

var columnWidths = map[string]float64{
	"A": 6, "B": 48, "C": 48, "D": 18, "E": 16, "F": 18, "G": 14, "H": 18,
	"I": 10, "J": 10, "K": 14, "L": 22, "M": 16, "N": 18, "O": 22, "P": 48,
}

// Workbook renders one sheet with a frozen, filterable header row.
type Workbook struct{}

func (Workbook) RenderListings(items []listings.Listing) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetListings); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(SheetListings, "A1", &listingHeader); err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(listingHeader), 1)
	if err := f.SetCellStyle(SheetListings, "A1", last, header); err != nil {
		return nil, err
	}

	for i, item := range items {
		row := listingRow(i+1, item)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetListings, cell, &row); err != nil {
			return nil, fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if len(items) > 0 {
		if err := f.SetCellStyle(SheetListings, "F2", fmt.Sprintf("F%d", len(items)+1), money); err != nil {
			return nil, err
		}
	}

	for col, width := range columnWidths {
		if err := f.SetColWidth(SheetListings, col, col, width); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(SheetListings, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}
	if err := f.AutoFilter(SheetListings, "A1:"+last, nil); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func listingRow(n int, l listings.Listing) []any {
	source := strings.TrimSpace(l.Website)
	if source == "" {
		source = format.Hostname(l.Link)
	}
	return []any{
		n,
		l.Title,
		l.Address,
		listings.CanonicalCity(l.City),
		l.Type,
		l.Price,
		l.Area,
		format.UnitPrice(l.UnitPrice),
		l.Bedroom,
		l.Bathroom,
		format.Legal(l.Legal),
		l.Seller,
		l.Phone,
		format.DateTime(l.PostedDate),
		source,
		l.Link,
	}
}
