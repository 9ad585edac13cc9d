package dto

// ProspectDTO represents a prospect in the review pipeline
type ProspectDTO struct {
	ID        uint    `json:"id"`
	Company   string  `json:"company"`
	Website   string  `json:"website,omitempty"`
	State     string  `json:"state,omitempty"`
	Service   string  `json:"service,omitempty"`
	Industry  string  `json:"industry,omitempty"`
	Revenue   string  `json:"revenue,omitempty"`
	Employees string  `json:"employees,omitempty"`
	Contact   string  `json:"contact,omitempty"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Notes     string  `json:"notes,omitempty"`
	Source    string  `json:"source,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Decision  *string `json:"decision,omitempty"`
	Stage     string  `json:"stage"`
	DateAdded string  `json:"date_added"`
}

// ImportProspectsRequest carries raw prospect CSV text
type ImportProspectsRequest struct {
	CSV    string `json:"csv" validate:"required"`
	Source string `json:"source,omitempty" validate:"omitempty,max=255"`
}

// ImportProspectsResponse reports how many rows were stored versus skipped
type ImportProspectsResponse struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}

// ListProspectsRequest represents optional filters when listing prospects
type ListProspectsRequest struct {
	Stage  *string `query:"stage" validate:"omitempty,oneof=unreviewed finalized unqualified"`
	Search *string `query:"search" validate:"omitempty,max=255"`
	Limit  int     `query:"limit" validate:"omitempty,min=0,max=1000"`
	Offset int     `query:"offset" validate:"omitempty,min=0"`
}

// ListProspectsResponse represents a page of prospects
type ListProspectsResponse struct {
	Message   string        `json:"message"`
	Total     int64         `json:"total"`
	Prospects []ProspectDTO `json:"prospects"`
}

// ReviewProspectRequest records an approve or reject decision. The review
// modal can edit the prospect's contact details in the same call, so the
// record is complete before it is finalized into a lead.
type ReviewProspectRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason,omitempty"`
	Company  string `json:"company,omitempty" validate:"omitempty,max=255"`
	Contact  string `json:"contact,omitempty" validate:"omitempty,max=255"`
	Email    string `json:"email,omitempty" validate:"omitempty,max=1024"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=255"`
	Industry string `json:"industry,omitempty" validate:"omitempty,max=255"`
	Notes    string `json:"notes,omitempty"`
}

// ReviewProspectResponse returns the prospect after a decision
type ReviewProspectResponse struct {
	Message  string      `json:"message"`
	Prospect ProspectDTO `json:"prospect"`
}

// BulkProspectRequest names the prospects a bulk operation applies to
type BulkProspectRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,min=1"`
}

// BulkProspectResponse reports how many prospects a bulk operation touched
type BulkProspectResponse struct {
	Message  string `json:"message"`
	Affected int    `json:"affected"`
}

// FinalizeProspectsResponse reports the outcome of converting approved prospects to leads
type FinalizeProspectsResponse struct {
	Message   string `json:"message"`
	Converted int    `json:"converted"`
	Failed    int    `json:"failed"`
}

// PipelineCountsResponse reports prospect counts per review stage
type PipelineCountsResponse struct {
	Message     string `json:"message"`
	Unreviewed  int64  `json:"unreviewed"`
	Finalized   int64  `json:"finalized"`
	Unqualified int64  `json:"unqualified"`
}
