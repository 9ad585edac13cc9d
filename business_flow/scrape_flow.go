package businessflow

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/app/services"
	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// Scrape session statuses
const (
	ScrapeStatusRunning   = "running"
	ScrapeStatusCompleted = "completed"
	ScrapeStatusStopped   = "stopped"
	ScrapeStatusFailed    = "failed"
)

// ScrapeFlow manages directory scrape sessions
type ScrapeFlow interface {
	StartScrape(ctx context.Context, req *dto.StartScrapeRequest, metadata *ClientMetadata) (*dto.ScrapeResponse, error)
	GetScrape(ctx context.Context, sessionID string) (*dto.ScrapeResponse, error)
	StopScrape(ctx context.Context, sessionID string) (*dto.ScrapeResponse, error)
	ImportResults(ctx context.Context, sessionID string, req *dto.ImportScrapeResultsRequest, metadata *ClientMetadata) (*dto.ImportScrapeResultsResponse, error)
}

// scrapeSession tracks one scrape run. records accumulates across pages and
// survives a stop or failure, so partial results are always importable.
type scrapeSession struct {
	id         string
	url        string
	maxResults int
	startedAt  time.Time

	stop atomic.Bool

	mu      sync.RWMutex
	status  string
	pages   int
	records []services.PageRecord
	errMsg  string
}

func (s *scrapeSession) snapshot() (string, int, []services.PageRecord, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]services.PageRecord, len(s.records))
	copy(records, s.records)
	return s.status, s.pages, records, s.errMsg
}

// ProviderFactory builds one browser provider per scrape session
type ProviderFactory func() services.PageProvider

// ScrapeFlowImpl implements ScrapeFlow
type ScrapeFlowImpl struct {
	newProvider  ProviderFactory
	prospectRepo repository.ProspectRepository
	settleDelay  time.Duration

	mu       sync.RWMutex
	sessions map[string]*scrapeSession
}

// NewScrapeFlow creates a new scrape flow
func NewScrapeFlow(newProvider ProviderFactory, prospectRepo repository.ProspectRepository) ScrapeFlow {
	return &ScrapeFlowImpl{
		newProvider:  newProvider,
		prospectRepo: prospectRepo,
		settleDelay:  utils.ScrapePageSettleDelay,
		sessions:     make(map[string]*scrapeSession),
	}
}

func (f *ScrapeFlowImpl) StartScrape(ctx context.Context, req *dto.StartScrapeRequest, metadata *ClientMetadata) (*dto.ScrapeResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = utils.DefaultScrapeMaxResults
	}

	session := &scrapeSession{
		id:         uuid.New().String(),
		url:        req.URL,
		maxResults: maxResults,
		startedAt:  utils.UTCNow(),
		status:     ScrapeStatusRunning,
	}

	f.mu.Lock()
	f.sessions[session.id] = session
	f.mu.Unlock()

	go f.run(session)

	return f.scrapeResponse(session, "Scrape started"), nil
}

// run walks directory pages until the cap, the last page, a stop request,
// or an error. Whatever was collected stays on the session.
func (f *ScrapeFlowImpl) run(session *scrapeSession) {
	ctx := context.Background()

	provider := f.newProvider()
	defer func() {
		if err := provider.Close(); err != nil {
			log.Printf("scrape %s: provider close failed: %v", session.id, err)
		}
	}()

	fail := func(err error) {
		session.mu.Lock()
		session.status = ScrapeStatusFailed
		session.errMsg = err.Error()
		session.mu.Unlock()
		log.Printf("scrape %s: %v", session.id, err)
	}

	if err := provider.Open(ctx, session.url); err != nil {
		fail(err)
		return
	}

	for {
		if session.stop.Load() {
			session.mu.Lock()
			session.status = ScrapeStatusStopped
			session.mu.Unlock()
			return
		}

		records, err := provider.ExtractRecords(ctx)
		if err != nil {
			fail(err)
			return
		}

		session.mu.Lock()
		session.pages++
		session.records = append(session.records, records...)
		capped := len(session.records) >= session.maxResults
		if capped {
			session.records = session.records[:session.maxResults]
			session.status = ScrapeStatusCompleted
		}
		session.mu.Unlock()
		if capped {
			return
		}

		advanced, err := provider.NextPage(ctx)
		if err != nil {
			fail(err)
			return
		}
		if !advanced {
			session.mu.Lock()
			session.status = ScrapeStatusCompleted
			session.mu.Unlock()
			return
		}

		// let the new page settle before extracting again
		time.Sleep(f.settleDelay)
	}
}

func (f *ScrapeFlowImpl) GetScrape(ctx context.Context, sessionID string) (*dto.ScrapeResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return f.scrapeResponse(session, "Scrape retrieved"), nil
}

// StopScrape requests a stop; the worker notices before the next page.
// Collected records remain available for import.
func (f *ScrapeFlowImpl) StopScrape(ctx context.Context, sessionID string) (*dto.ScrapeResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.RLock()
	running := session.status == ScrapeStatusRunning
	session.mu.RUnlock()
	if !running {
		return nil, NewBusinessError("SCRAPE_ALREADY_STOPPED", "Scrape session already stopped", ErrScrapeAlreadyStopped)
	}

	session.stop.Store(true)
	return f.scrapeResponse(session, "Stop requested"), nil
}

func (f *ScrapeFlowImpl) ImportResults(ctx context.Context, sessionID string, req *dto.ImportScrapeResultsRequest, metadata *ClientMetadata) (*dto.ImportScrapeResultsResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	status, _, records, _ := session.snapshot()
	if status == ScrapeStatusRunning {
		return nil, NewBusinessError("SCRAPE_STILL_RUNNING", "Scrape session is still running", ErrScrapeStillRunning)
	}
	if len(records) == 0 {
		return nil, NewBusinessError("SCRAPE_NO_RESULTS", "Scrape session has no results", ErrScrapeNoResults)
	}

	source := session.url
	if req != nil && req.Source != "" {
		source = req.Source
	}

	imported, skipped := 0, 0
	for _, record := range records {
		if record.Company == "" {
			skipped++
			continue
		}
		prospect := models.Prospect{
			Company:   record.Company,
			Website:   record.Website,
			Phone:     record.Phone,
			State:     record.State,
			Source:    source,
			Stage:     models.ProspectStageUnreviewed,
			DateAdded: utils.UTCNow(),
		}
		if err := f.prospectRepo.Save(ctx, &prospect); err != nil {
			log.Printf("scrape import: failed to save %q: %v", record.Company, err)
			skipped++
			continue
		}
		imported++
	}

	return &dto.ImportScrapeResultsResponse{
		Message:  "Scrape results imported",
		Imported: imported,
		Skipped:  skipped,
	}, nil
}

func (f *ScrapeFlowImpl) lookup(sessionID string) (*scrapeSession, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, NewBusinessError("SCRAPE_NOT_FOUND", "Scrape session not found", ErrScrapeNotFound)
	}
	return session, nil
}

func (f *ScrapeFlowImpl) scrapeResponse(session *scrapeSession, message string) *dto.ScrapeResponse {
	status, pages, records, errMsg := session.snapshot()

	items := make([]dto.ScrapeRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, dto.ScrapeRecordDTO{
			Company: record.Company,
			Website: record.Website,
			Phone:   record.Phone,
			State:   record.State,
		})
	}

	return &dto.ScrapeResponse{
		Message: message,
		Scrape: dto.ScrapeStatusDTO{
			SessionID: session.id,
			URL:       session.url,
			Status:    status,
			Pages:     pages,
			Records:   items,
			Error:     errMsg,
			StartedAt: session.startedAt.Format(time.RFC3339),
		},
	}
}
