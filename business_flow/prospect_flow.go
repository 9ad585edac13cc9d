package businessflow

import (
	"context"
	"log"
	"strings"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/csvcodec"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// ProspectFlow defines the prospect review pipeline
type ProspectFlow interface {
	ImportProspects(ctx context.Context, req *dto.ImportProspectsRequest, metadata *ClientMetadata) (*dto.ImportProspectsResponse, error)
	ListProspects(ctx context.Context, req *dto.ListProspectsRequest) (*dto.ListProspectsResponse, error)
	ReviewProspect(ctx context.Context, id uint, req *dto.ReviewProspectRequest, metadata *ClientMetadata) (*dto.ReviewProspectResponse, error)
	BulkReview(ctx context.Context, req *dto.BulkProspectRequest, decision models.ProspectDecision, metadata *ClientMetadata) (*dto.BulkProspectResponse, error)
	BulkDelete(ctx context.Context, req *dto.BulkProspectRequest, metadata *ClientMetadata) (*dto.BulkProspectResponse, error)
	FinalizeAll(ctx context.Context, metadata *ClientMetadata) (*dto.FinalizeProspectsResponse, error)
	PipelineCounts(ctx context.Context) (*dto.PipelineCountsResponse, error)
}

// ProspectFlowImpl implements ProspectFlow
type ProspectFlowImpl struct {
	prospectRepo repository.ProspectRepository
	leadRepo     repository.LeadRepository
}

// NewProspectFlow creates a new prospect flow
func NewProspectFlow(
	prospectRepo repository.ProspectRepository,
	leadRepo repository.LeadRepository,
) ProspectFlow {
	return &ProspectFlowImpl{
		prospectRepo: prospectRepo,
		leadRepo:     leadRepo,
	}
}

func (f *ProspectFlowImpl) ImportProspects(ctx context.Context, req *dto.ImportProspectsRequest, metadata *ClientMetadata) (*dto.ImportProspectsResponse, error) {
	if req == nil || strings.TrimSpace(req.CSV) == "" {
		return nil, NewBusinessError("EMPTY_IMPORT", "import text is empty", ErrEmptyImport)
	}

	rows, skipped := csvcodec.ParseProspects(req.CSV)

	imported := 0
	for _, row := range rows {
		prospect := models.Prospect{
			Company:   row.Company,
			State:     row.State,
			Website:   row.Website,
			Phone:     row.Phone,
			Reason:    row.Reason,
			Source:    req.Source,
			Stage:     models.ProspectStageUnreviewed,
			DateAdded: utils.UTCNow(),
		}
		if err := f.prospectRepo.Save(ctx, &prospect); err != nil {
			log.Printf("prospect import: failed to save %q: %v", row.Company, err)
			skipped++
			continue
		}
		imported++
	}

	return &dto.ImportProspectsResponse{
		Message:  "Prospects imported",
		Imported: imported,
		Skipped:  skipped,
	}, nil
}

func (f *ProspectFlowImpl) ListProspects(ctx context.Context, req *dto.ListProspectsRequest) (*dto.ListProspectsResponse, error) {
	filter := models.ProspectFilter{}
	if req != nil {
		filter.Search = req.Search
		if req.Stage != nil {
			stage := models.ProspectStage(*req.Stage)
			if !stage.Valid() {
				return nil, NewBusinessError("INVALID_STAGE", "invalid pipeline stage", nil)
			}
			filter.Stage = &stage
		}
	}

	total, err := f.prospectRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PROSPECT_LIST_FAILED", "Failed to count prospects", err)
	}

	limit, offset := 0, 0
	if req != nil {
		limit, offset = req.Limit, req.Offset
	}
	prospects, err := f.prospectRepo.ByFilter(ctx, filter, "id ASC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("PROSPECT_LIST_FAILED", "Failed to list prospects", err)
	}

	items := make([]dto.ProspectDTO, 0, len(prospects))
	for _, prospect := range prospects {
		items = append(items, ToProspectDTO(*prospect))
	}

	return &dto.ListProspectsResponse{
		Message:   "Prospects retrieved",
		Total:     total,
		Prospects: items,
	}, nil
}

func (f *ProspectFlowImpl) ReviewProspect(ctx context.Context, id uint, req *dto.ReviewProspectRequest, metadata *ClientMetadata) (*dto.ReviewProspectResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	decision := models.ProspectDecision(req.Decision)
	if !decision.Valid() {
		return nil, NewBusinessError("INVALID_DECISION", "invalid review decision", ErrInvalidDecision)
	}

	prospect, err := f.prospectRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PROSPECT_LOOKUP_FAILED", "Failed to look up prospect", err)
	}
	if prospect == nil {
		return nil, NewBusinessError("PROSPECT_NOT_FOUND", "Prospect not found", ErrProspectNotFound)
	}

	applyProspectEdits(prospect, req)
	applyDecision(prospect, decision, req.Reason)

	if err := f.prospectRepo.Update(ctx, prospect); err != nil {
		return nil, NewBusinessError("PROSPECT_UPDATE_FAILED", "Failed to record decision", err)
	}

	return &dto.ReviewProspectResponse{
		Message:  "Decision recorded",
		Prospect: ToProspectDTO(*prospect),
	}, nil
}

// applyDecision moves the prospect to the stage its decision implies.
// Re-reviewing is allowed at any stage, so an approve can pull a prospect
// back out of unqualified and a reject can park a finalized one.
func applyDecision(prospect *models.Prospect, decision models.ProspectDecision, reason string) {
	prospect.Decision = &decision
	switch decision {
	case models.ProspectDecisionApprove:
		prospect.Stage = models.ProspectStageFinalized
	case models.ProspectDecisionReject:
		prospect.Stage = models.ProspectStageUnqualified
		if reason != "" {
			prospect.Reason = reason
		}
	}
}

// applyProspectEdits folds the optional review-form edits into the record.
// Blank fields leave the stored value alone.
func applyProspectEdits(prospect *models.Prospect, req *dto.ReviewProspectRequest) {
	if v := strings.TrimSpace(req.Company); v != "" {
		prospect.Company = v
	}
	if v := strings.TrimSpace(req.Contact); v != "" {
		prospect.Contact = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		prospect.Email = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		prospect.Phone = v
	}
	if v := strings.TrimSpace(req.Industry); v != "" {
		prospect.Industry = v
	}
	if v := strings.TrimSpace(req.Notes); v != "" {
		prospect.Notes = v
	}
}

func (f *ProspectFlowImpl) BulkReview(ctx context.Context, req *dto.BulkProspectRequest, decision models.ProspectDecision, metadata *ClientMetadata) (*dto.BulkProspectResponse, error) {
	if req == nil || len(req.IDs) == 0 {
		return nil, NewBusinessError("INVALID_REQUEST", "at least one prospect id is required", nil)
	}
	if !decision.Valid() {
		return nil, NewBusinessError("INVALID_DECISION", "invalid review decision", ErrInvalidDecision)
	}

	affected := 0
	for _, id := range req.IDs {
		prospect, err := f.prospectRepo.ByID(ctx, id)
		if err != nil {
			return nil, NewBusinessError("PROSPECT_LOOKUP_FAILED", "Failed to look up prospect", err)
		}
		if prospect == nil {
			continue
		}

		applyDecision(prospect, decision, "")
		if err := f.prospectRepo.Update(ctx, prospect); err != nil {
			return nil, NewBusinessError("PROSPECT_UPDATE_FAILED", "Failed to record decision", err)
		}
		affected++
	}

	return &dto.BulkProspectResponse{
		Message:  "Decisions recorded",
		Affected: affected,
	}, nil
}

func (f *ProspectFlowImpl) BulkDelete(ctx context.Context, req *dto.BulkProspectRequest, metadata *ClientMetadata) (*dto.BulkProspectResponse, error) {
	if req == nil || len(req.IDs) == 0 {
		return nil, NewBusinessError("INVALID_REQUEST", "at least one prospect id is required", nil)
	}

	affected := 0
	for _, id := range req.IDs {
		prospect, err := f.prospectRepo.ByID(ctx, id)
		if err != nil {
			return nil, NewBusinessError("PROSPECT_LOOKUP_FAILED", "Failed to look up prospect", err)
		}
		if prospect == nil {
			continue
		}
		if err := f.prospectRepo.Delete(ctx, id); err != nil {
			return nil, NewBusinessError("PROSPECT_DELETE_FAILED", "Failed to delete prospect", err)
		}
		affected++
	}

	return &dto.BulkProspectResponse{
		Message:  "Prospects deleted",
		Affected: affected,
	}, nil
}

// FinalizeAll converts every finalized prospect into a lead and removes
// the prospect row. Conversion is deliberately per-prospect: one failure
// is counted and logged but does not roll back the prospects already
// converted.
func (f *ProspectFlowImpl) FinalizeAll(ctx context.Context, metadata *ClientMetadata) (*dto.FinalizeProspectsResponse, error) {
	finalized := models.ProspectStageFinalized
	prospects, err := f.prospectRepo.ByFilter(ctx, models.ProspectFilter{
		Stage: &finalized,
	}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("PROSPECT_LIST_FAILED", "Failed to list finalized prospects", err)
	}
	if len(prospects) == 0 {
		return nil, NewBusinessError("NO_FINALIZED_PROSPECTS", "No approved prospects to finalize", ErrNoFinalizedProspects)
	}

	converted, failed := 0, 0
	for _, prospect := range prospects {
		industry := prospect.Industry
		if industry == "" {
			industry = prospect.Service
		}
		lead := models.Lead{
			Company:   prospect.Company,
			Contact:   prospect.Contact,
			Email:     prospect.Email,
			Phone:     prospect.Phone,
			Industry:  industry,
			State:     prospect.State,
			Website:   prospect.Website,
			Notes:     prospect.Notes,
			Comments:  prospect.Reason,
			DateAdded: utils.UTCNow(),
		}
		if err := f.leadRepo.Save(ctx, &lead); err != nil {
			log.Printf("finalize: failed to convert prospect %d (%s): %v", prospect.ID, prospect.Company, err)
			failed++
			continue
		}
		if err := f.prospectRepo.Delete(ctx, prospect.ID); err != nil {
			log.Printf("finalize: converted prospect %d but failed to remove it: %v", prospect.ID, err)
			failed++
			continue
		}
		converted++
	}

	return &dto.FinalizeProspectsResponse{
		Message:   "Approved prospects finalized",
		Converted: converted,
		Failed:    failed,
	}, nil
}

func (f *ProspectFlowImpl) PipelineCounts(ctx context.Context) (*dto.PipelineCountsResponse, error) {
	counts, err := f.prospectRepo.CountByStage(ctx)
	if err != nil {
		return nil, NewBusinessError("PIPELINE_COUNT_FAILED", "Failed to count pipeline", err)
	}

	return &dto.PipelineCountsResponse{
		Message:     "Pipeline counts retrieved",
		Unreviewed:  counts[models.ProspectStageUnreviewed],
		Finalized:   counts[models.ProspectStageFinalized],
		Unqualified: counts[models.ProspectStageUnqualified],
	}, nil
}
