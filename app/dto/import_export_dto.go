package dto

// ImportLeadsRequest carries raw lead CSV text
type ImportLeadsRequest struct {
	CSV string `json:"csv" validate:"required"`
}

// ImportLeadsResponse reports how many rows were stored versus skipped
type ImportLeadsResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ExportLeadsResponse carries the rendered CSV export
type ExportLeadsResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	CSV      string `json:"csv"`
}

// BulkExportResponse is the full-database JSON snapshot
type BulkExportResponse struct {
	Leads      []LeadDTO     `json:"leads"`
	Config     *AppConfigDTO `json:"config,omitempty"`
	ExportDate string        `json:"export_date"`
}

// ExportWorkbookResponse reports where the spreadsheet export was written
type ExportWorkbookResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Sheets   int    `json:"sheets"`
	Leads    int    `json:"leads"`
}
