package dto

// StartScrapeRequest begins a scrape session against a directory URL
type StartScrapeRequest struct {
	URL        string `json:"url" validate:"required,url,max=2048"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=1000"`
}

// ScrapeRecordDTO is one extracted business listing
type ScrapeRecordDTO struct {
	Company string `json:"company"`
	Website string `json:"website,omitempty"`
	Phone   string `json:"phone,omitempty"`
	State   string `json:"state,omitempty"`
}

// ScrapeStatusDTO reports the live state of a scrape session
type ScrapeStatusDTO struct {
	SessionID string            `json:"session_id"`
	URL       string            `json:"url"`
	Status    string            `json:"status"`
	Pages     int               `json:"pages"`
	Records   []ScrapeRecordDTO `json:"records"`
	Error     string            `json:"error,omitempty"`
	StartedAt string            `json:"started_at"`
}

// ScrapeResponse wraps a scrape session status
type ScrapeResponse struct {
	Message string          `json:"message"`
	Scrape  ScrapeStatusDTO `json:"scrape"`
}

// ImportScrapeResultsRequest converts a finished scrape into prospects
type ImportScrapeResultsRequest struct {
	Source string `json:"source,omitempty" validate:"omitempty,max=255"`
}

// ImportScrapeResultsResponse reports how many records became prospects
type ImportScrapeResultsResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
