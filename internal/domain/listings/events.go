package listings

import "time"

// ReportExported is raised after a listings workbook has been produced.
type ReportExported struct {
	ReportID string         `json:"report_id"`
	Rows     int            `json:"rows"`
	Criteria FilterCriteria `json:"criteria"`
	Sort     SortKey        `json:"sort"`
	URL      string         `json:"url,omitempty"`
	At       time.Time      `json:"at"`
}

func (e ReportExported) EventName() string     { return "report.exported" }
func (e ReportExported) AggregateID() string   { return e.ReportID }
func (e ReportExported) OccurredAt() time.Time { return e.At }
