package dto

// ReportFile is a rendered workbook ready to be streamed to the browser.
type ReportFile struct {
	Name        string
	ContentType string
	Data        []byte
	Rows        int
}

// ReportResult describes an exported report stored in object storage.
type ReportResult struct {
	ReportID string `json:"report_id"`
	FileName string `json:"file_name"`
	Rows     int    `json:"rows"`
	URL      string `json:"url,omitempty"`
}
