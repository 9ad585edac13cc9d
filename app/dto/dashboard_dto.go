package dto

// OutcomeCountDTO is one call outcome with its total
type OutcomeCountDTO struct {
	Outcome string `json:"outcome"`
	Count   int64  `json:"count"`
}

// DashboardResponse aggregates activity totals for the dashboard
type DashboardResponse struct {
	Message          string            `json:"message"`
	TotalLeads       int64             `json:"total_leads"`
	LeadsNeverCalled int64             `json:"leads_never_called"`
	LeadsDue         int64             `json:"leads_due"`
	CallsToday       int64             `json:"calls_today"`
	CallsThisWeek    int64             `json:"calls_this_week"`
	MeetingsSet      int64             `json:"meetings_set"`
	OutcomeCounts    []OutcomeCountDTO `json:"outcome_counts"`
	Pipeline         struct {
		Unreviewed  int64 `json:"unreviewed"`
		Finalized   int64 `json:"finalized"`
		Unqualified int64 `json:"unqualified"`
	} `json:"pipeline"`
	GeneratedAt string `json:"generated_at"`
}
