package businessflow

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/app/services"
	"github.com/leadline/leadline/models"
)

// In-memory repository fakes shared by the flow tests.

type fakeLeadRepo struct {
	mu     sync.Mutex
	nextID uint
	leads  map[uint]*models.Lead

	saveErr error
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: make(map[uint]*models.Lead)}
}

func (r *fakeLeadRepo) ByID(ctx context.Context, id uint) (*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[id]
	if !ok {
		return nil, nil
	}
	copied := *lead
	return &copied, nil
}

func (r *fakeLeadRepo) matches(lead *models.Lead, filter models.LeadFilter) bool {
	if filter.ID != nil && lead.ID != *filter.ID {
		return false
	}
	if filter.Company != nil && lead.Company != *filter.Company {
		return false
	}
	if filter.State != nil && lead.State != *filter.State {
		return false
	}
	if filter.NeverCalled != nil {
		if *filter.NeverCalled != (lead.LastCalled == nil) {
			return false
		}
	}
	if filter.CallOutcome != nil {
		if lead.CallOutcome == nil || *lead.CallOutcome != *filter.CallOutcome {
			return false
		}
	}
	return true
}

func (r *fakeLeadRepo) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Lead
	for _, lead := range r.leads {
		if r.matches(lead, filter) {
			copied := *lead
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeLeadRepo) Save(ctx context.Context, lead *models.Lead) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if lead.ID == 0 {
		r.nextID++
		lead.ID = r.nextID
	}
	copied := *lead
	r.leads[lead.ID] = &copied
	return nil
}

func (r *fakeLeadRepo) SaveBatch(ctx context.Context, leads []*models.Lead) error {
	for _, lead := range leads {
		if err := r.Save(ctx, lead); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeLeadRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.leads, id)
	return nil
}

func (r *fakeLeadRepo) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	leads, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(leads)), nil
}

func (r *fakeLeadRepo) Exists(ctx context.Context, filter models.LeadFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeLeadRepo) List(ctx context.Context) ([]*models.Lead, error) {
	return r.ByFilter(ctx, models.LeadFilter{}, "", 0, 0)
}

func (r *fakeLeadRepo) Update(ctx context.Context, lead *models.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *lead
	r.leads[lead.ID] = &copied
	return nil
}

func (r *fakeLeadRepo) RecordCall(ctx context.Context, leadID uint, calledAt time.Time, outcome models.CallOutcome, notes string, meeting *models.MeetingData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[leadID]
	if !ok {
		return fmt.Errorf("lead %d not found", leadID)
	}
	at := calledAt
	o := outcome
	lead.LastCalled = &at
	lead.CallOutcome = &o
	lead.Notes = notes
	lead.Meeting = meeting
	return nil
}

func (r *fakeLeadRepo) ListUncalledSince(ctx context.Context, threshold time.Time) ([]*models.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Lead
	for _, lead := range r.leads {
		if lead.LastCalled == nil || lead.LastCalled.Before(threshold) {
			copied := *lead
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeProspectRepo struct {
	mu        sync.Mutex
	nextID    uint
	prospects map[uint]*models.Prospect

	saveErr error
}

func newFakeProspectRepo() *fakeProspectRepo {
	return &fakeProspectRepo{prospects: make(map[uint]*models.Prospect)}
}

func (r *fakeProspectRepo) ByID(ctx context.Context, id uint) (*models.Prospect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prospect, ok := r.prospects[id]
	if !ok {
		return nil, nil
	}
	copied := *prospect
	return &copied, nil
}

func (r *fakeProspectRepo) matches(prospect *models.Prospect, filter models.ProspectFilter) bool {
	if filter.ID != nil && prospect.ID != *filter.ID {
		return false
	}
	if filter.Company != nil && prospect.Company != *filter.Company {
		return false
	}
	if filter.Stage != nil && prospect.Stage != *filter.Stage {
		return false
	}
	if filter.Decision != nil {
		if prospect.Decision == nil || *prospect.Decision != *filter.Decision {
			return false
		}
	}
	return true
}

func (r *fakeProspectRepo) ByFilter(ctx context.Context, filter models.ProspectFilter, orderBy string, limit, offset int) ([]*models.Prospect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Prospect
	for _, prospect := range r.prospects {
		if r.matches(prospect, filter) {
			copied := *prospect
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeProspectRepo) Save(ctx context.Context, prospect *models.Prospect) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prospect.ID == 0 {
		r.nextID++
		prospect.ID = r.nextID
	}
	copied := *prospect
	r.prospects[prospect.ID] = &copied
	return nil
}

func (r *fakeProspectRepo) SaveBatch(ctx context.Context, prospects []*models.Prospect) error {
	for _, prospect := range prospects {
		if err := r.Save(ctx, prospect); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeProspectRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.prospects, id)
	return nil
}

func (r *fakeProspectRepo) Count(ctx context.Context, filter models.ProspectFilter) (int64, error) {
	prospects, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(prospects)), nil
}

func (r *fakeProspectRepo) Exists(ctx context.Context, filter models.ProspectFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeProspectRepo) List(ctx context.Context) ([]*models.Prospect, error) {
	return r.ByFilter(ctx, models.ProspectFilter{}, "", 0, 0)
}

func (r *fakeProspectRepo) ListByStage(ctx context.Context, stage models.ProspectStage) ([]*models.Prospect, error) {
	return r.ByFilter(ctx, models.ProspectFilter{Stage: &stage}, "", 0, 0)
}

func (r *fakeProspectRepo) Update(ctx context.Context, prospect *models.Prospect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *prospect
	r.prospects[prospect.ID] = &copied
	return nil
}

func (r *fakeProspectRepo) CountByStage(ctx context.Context) (map[models.ProspectStage]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[models.ProspectStage]int64)
	for _, prospect := range r.prospects {
		counts[prospect.Stage]++
	}
	return counts, nil
}

type fakeQueueRepo struct {
	mu     sync.Mutex
	nextID uint
	queues map[uint]*models.CustomQueue
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{queues: make(map[uint]*models.CustomQueue)}
}

func (r *fakeQueueRepo) ByID(ctx context.Context, id uint) (*models.CustomQueue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	queue, ok := r.queues[id]
	if !ok {
		return nil, nil
	}
	copied := *queue
	return &copied, nil
}

func (r *fakeQueueRepo) ByFilter(ctx context.Context, filter models.CustomQueueFilter, orderBy string, limit, offset int) ([]*models.CustomQueue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CustomQueue
	for _, queue := range r.queues {
		if filter.ID != nil && queue.ID != *filter.ID {
			continue
		}
		if filter.Name != nil && queue.Name != *filter.Name {
			continue
		}
		copied := *queue
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeQueueRepo) Save(ctx context.Context, queue *models.CustomQueue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if queue.ID == 0 {
		r.nextID++
		queue.ID = r.nextID
	}
	copied := *queue
	r.queues[queue.ID] = &copied
	return nil
}

func (r *fakeQueueRepo) SaveBatch(ctx context.Context, queues []*models.CustomQueue) error {
	for _, queue := range queues {
		if err := r.Save(ctx, queue); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeQueueRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.queues, id)
	return nil
}

func (r *fakeQueueRepo) Count(ctx context.Context, filter models.CustomQueueFilter) (int64, error) {
	queues, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(queues)), nil
}

func (r *fakeQueueRepo) Exists(ctx context.Context, filter models.CustomQueueFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	return count > 0, err
}

func (r *fakeQueueRepo) List(ctx context.Context) ([]*models.CustomQueue, error) {
	return r.ByFilter(ctx, models.CustomQueueFilter{}, "", 0, 0)
}

func (r *fakeQueueRepo) Update(ctx context.Context, queue *models.CustomQueue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *queue
	r.queues[queue.ID] = &copied
	return nil
}

type fakeCallLogRepo struct {
	mu      sync.Mutex
	entries []*models.CallLog
}

func newFakeCallLogRepo() *fakeCallLogRepo {
	return &fakeCallLogRepo{}
}

func (r *fakeCallLogRepo) ByID(ctx context.Context, id string) (*models.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeCallLogRepo) matches(entry *models.CallLog, filter models.CallLogFilter) bool {
	if filter.LeadID != nil && entry.LeadID != *filter.LeadID {
		return false
	}
	if filter.Outcome != nil && entry.Outcome != *filter.Outcome {
		return false
	}
	if filter.Since != nil && entry.Timestamp.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && entry.Timestamp.After(*filter.Until) {
		return false
	}
	return true
}

func (r *fakeCallLogRepo) ByFilter(ctx context.Context, filter models.CallLogFilter, orderBy string, limit, offset int) ([]*models.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.CallLog
	for _, entry := range r.entries {
		if r.matches(entry, filter) {
			copied := *entry
			out = append(out, &copied)
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeCallLogRepo) Save(ctx context.Context, entry *models.CallLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeCallLogRepo) List(ctx context.Context) ([]*models.CallLog, error) {
	return r.ByFilter(ctx, models.CallLogFilter{}, "", 0, 0)
}

func (r *fakeCallLogRepo) ListByLead(ctx context.Context, leadID uint) ([]*models.CallLog, error) {
	return r.ByFilter(ctx, models.CallLogFilter{LeadID: &leadID}, "", 0, 0)
}

func (r *fakeCallLogRepo) Count(ctx context.Context, filter models.CallLogFilter) (int64, error) {
	entries, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(entries)), nil
}

func (r *fakeCallLogRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.Count(ctx, models.CallLogFilter{Since: &since})
}

type fakeConfigRepo struct {
	mu  sync.Mutex
	cfg *models.AppConfig
}

func (r *fakeConfigRepo) Get(ctx context.Context) (*models.AppConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return nil, nil
	}
	copied := *r.cfg
	return &copied, nil
}

func (r *fakeConfigRepo) Save(ctx context.Context, cfg *models.AppConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *cfg
	r.cfg = &copied
	return nil
}

type fakeNotepadRepo struct {
	mu  sync.Mutex
	pad *models.Notepad
}

func (r *fakeNotepadRepo) Get(ctx context.Context) (*models.Notepad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pad == nil {
		return nil, nil
	}
	copied := *r.pad
	return &copied, nil
}

func (r *fakeNotepadRepo) Save(ctx context.Context, pad *models.Notepad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *pad
	r.pad = &copied
	return nil
}

// fakePageProvider walks a canned sequence of directory pages.
type fakePageProvider struct {
	pages   [][]services.PageRecord
	idx     int
	openErr error
	opened  string
	closed  bool
}

func (p *fakePageProvider) Open(ctx context.Context, url string) error {
	p.opened = url
	return p.openErr
}

func (p *fakePageProvider) ExtractRecords(ctx context.Context) ([]services.PageRecord, error) {
	if p.idx >= len(p.pages) {
		return nil, nil
	}
	return p.pages[p.idx], nil
}

func (p *fakePageProvider) NextPage(ctx context.Context) (bool, error) {
	p.idx++
	return p.idx < len(p.pages), nil
}

func (p *fakePageProvider) Close() error {
	p.closed = true
	return nil
}

// fakeLeadFlow records calls without touching a database. Only RecordCall
// carries behavior; session tests never reach the other methods.
type fakeLeadFlow struct {
	leadRepo *fakeLeadRepo
	recorded []uint
}

func (f *fakeLeadFlow) CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.CreateLeadResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeLeadFlow) GetLead(ctx context.Context, id uint) (*dto.LeadDTO, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeLeadFlow) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeLeadFlow) UpdateLead(ctx context.Context, id uint, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.UpdateLeadResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeLeadFlow) DeleteLead(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.DeleteLeadResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeLeadFlow) RecordCall(ctx context.Context, id uint, req *dto.RecordCallRequest, metadata *ClientMetadata) (*dto.RecordCallResponse, error) {
	outcome := models.CallOutcome(req.Outcome)
	if !outcome.Valid() {
		return nil, NewBusinessError("INVALID_CALL_OUTCOME", "invalid call outcome", ErrInvalidCallOutcome)
	}
	if err := f.leadRepo.RecordCall(ctx, id, time.Now().UTC(), outcome, req.Notes, nil); err != nil {
		return nil, err
	}
	f.recorded = append(f.recorded, id)
	return &dto.RecordCallResponse{
		Message:   "Call recorded",
		CallLogID: fmt.Sprintf("call-test-%d", len(f.recorded)),
	}, nil
}

func (f *fakeLeadFlow) ListCalls(ctx context.Context, leadID *uint, limit, offset int) (*dto.ListCallLogsResponse, error) {
	return nil, fmt.Errorf("not implemented")
}
