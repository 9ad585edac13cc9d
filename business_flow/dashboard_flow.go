package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

const (
	dashboardCacheKey = "dashboard:summary"
	dashboardCacheTTL = time.Minute
)

// DashboardFlow aggregates activity totals for the dashboard
type DashboardFlow interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

// DashboardFlowImpl implements DashboardFlow. Aggregates are cached in
// Redis for a minute; a cold or unreachable cache falls through to the
// database.
type DashboardFlowImpl struct {
	leadRepo     repository.LeadRepository
	callLogRepo  repository.CallLogRepository
	prospectRepo repository.ProspectRepository
	configRepo   repository.AppConfigRepository
	rc           *redis.Client
	cachePrefix  string
}

// NewDashboardFlow creates a new dashboard flow
func NewDashboardFlow(
	leadRepo repository.LeadRepository,
	callLogRepo repository.CallLogRepository,
	prospectRepo repository.ProspectRepository,
	configRepo repository.AppConfigRepository,
	rc *redis.Client,
	cachePrefix string,
) DashboardFlow {
	return &DashboardFlowImpl{
		leadRepo:     leadRepo,
		callLogRepo:  callLogRepo,
		prospectRepo: prospectRepo,
		configRepo:   configRepo,
		rc:           rc,
		cachePrefix:  cachePrefix,
	}
}

func (f *DashboardFlowImpl) cacheKey() string {
	return f.cachePrefix + dashboardCacheKey
}

func (f *DashboardFlowImpl) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	if f.rc != nil {
		if bs, err := f.rc.Get(ctx, f.cacheKey()).Bytes(); err == nil && len(bs) > 0 {
			var out dto.DashboardResponse
			if err := json.Unmarshal(bs, &out); err == nil {
				return &out, nil
			}
		}
	}

	out, err := f.buildDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if f.rc != nil {
		if bs, err := json.Marshal(out); err == nil {
			_ = f.rc.Set(ctx, f.cacheKey(), bs, dashboardCacheTTL).Err()
		}
	}
	return out, nil
}

func (f *DashboardFlowImpl) buildDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := utils.UTCNow()

	totalLeads, err := f.leadRepo.Count(ctx, models.LeadFilter{})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count leads", err)
	}

	neverCalled := true
	leadsNeverCalled, err := f.leadRepo.Count(ctx, models.LeadFilter{NeverCalled: &neverCalled})
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count uncalled leads", err)
	}

	days := utils.DefaultCallQueueDays
	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, NewBusinessError("CONFIG_LOOKUP_FAILED", "Failed to load settings", err)
	}
	if cfg != nil && cfg.CallQueueDays > 0 {
		days = cfg.CallQueueDays
	}
	due, err := f.leadRepo.ListUncalledSince(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to resolve due leads", err)
	}

	callsToday, err := f.callLogRepo.CountSince(ctx, utils.StartOfDay(now))
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count calls", err)
	}
	callsThisWeek, err := f.callLogRepo.CountSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count calls", err)
	}

	outcomes := []models.CallOutcome{
		models.CallOutcomeMeetingSet,
		models.CallOutcomeReceptionist,
		models.CallOutcomeNotInterested,
		models.CallOutcomeVoicemail,
		models.CallOutcomeSpokeWithContact,
		models.CallOutcomeNoAnswer,
	}
	var meetingsSet int64
	outcomeCounts := make([]dto.OutcomeCountDTO, 0, len(outcomes))
	for _, outcome := range outcomes {
		o := outcome
		count, err := f.callLogRepo.Count(ctx, models.CallLogFilter{Outcome: &o})
		if err != nil {
			return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count outcomes", err)
		}
		if outcome == models.CallOutcomeMeetingSet {
			meetingsSet = count
		}
		outcomeCounts = append(outcomeCounts, dto.OutcomeCountDTO{
			Outcome: outcome.String(),
			Count:   count,
		})
	}

	pipeline, err := f.prospectRepo.CountByStage(ctx)
	if err != nil {
		return nil, NewBusinessError("DASHBOARD_FAILED", "Failed to count pipeline", err)
	}

	out := &dto.DashboardResponse{
		Message:          "Dashboard generated",
		TotalLeads:       totalLeads,
		LeadsNeverCalled: leadsNeverCalled,
		LeadsDue:         int64(len(due)),
		CallsToday:       callsToday,
		CallsThisWeek:    callsThisWeek,
		MeetingsSet:      meetingsSet,
		OutcomeCounts:    outcomeCounts,
		GeneratedAt:      now.Format(time.RFC3339),
	}
	out.Pipeline.Unreviewed = pipeline[models.ProspectStageUnreviewed]
	out.Pipeline.Finalized = pipeline[models.ProspectStageFinalized]
	out.Pipeline.Unqualified = pipeline[models.ProspectStageUnqualified]
	return out, nil
}
