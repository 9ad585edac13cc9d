package businessflow

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadline/leadline/app/dto"
	"github.com/leadline/leadline/repository"
	"github.com/leadline/leadline/utils"
)

// CallSessionFlow drives a cursor over a resolved queue so a caller can
// work through leads one at a time.
type CallSessionFlow interface {
	StartSession(ctx context.Context, req *dto.StartSessionRequest, metadata *ClientMetadata) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Advance(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	AdvanceOrCycle(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	Retreat(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	JumpRandom(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SetNotes(ctx context.Context, sessionID string, req *dto.SessionNotesRequest) (*dto.SessionResponse, error)
	CompleteCall(ctx context.Context, sessionID string, req *dto.CompleteCallRequest, metadata *ClientMetadata) (*dto.CompleteCallResponse, error)
	EndSession(ctx context.Context, sessionID string) error
}

// callSession is the in-memory cursor state for one live session
type callSession struct {
	id        string
	queueID   string
	leadIDs   []uint
	position  int
	notes     string
	startedAt time.Time
}

// CallSessionFlowImpl implements CallSessionFlow. Sessions live in process
// memory; a restart drops them, which matches their throwaway nature.
type CallSessionFlowImpl struct {
	queueFlow QueueFlow
	leadFlow  LeadFlow
	leadRepo  repository.LeadRepository

	mu       sync.RWMutex
	sessions map[string]*callSession
}

// NewCallSessionFlow creates a new call session flow
func NewCallSessionFlow(
	queueFlow QueueFlow,
	leadFlow LeadFlow,
	leadRepo repository.LeadRepository,
) CallSessionFlow {
	return &CallSessionFlowImpl{
		queueFlow: queueFlow,
		leadFlow:  leadFlow,
		leadRepo:  leadRepo,
		sessions:  make(map[string]*callSession),
	}
}

func (f *CallSessionFlowImpl) StartSession(ctx context.Context, req *dto.StartSessionRequest, metadata *ClientMetadata) (*dto.SessionResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	resolved, err := f.queueFlow.ResolveQueue(ctx, req.QueueID)
	if err != nil {
		return nil, err
	}
	if len(resolved.Leads) == 0 {
		return nil, NewBusinessError("QUEUE_EMPTY", "Queue has no due leads", ErrQueueEmpty)
	}

	leadIDs := make([]uint, 0, len(resolved.Leads))
	for _, lead := range resolved.Leads {
		leadIDs = append(leadIDs, lead.ID)
	}

	session := &callSession{
		id:        uuid.New().String(),
		queueID:   resolved.QueueID,
		leadIDs:   leadIDs,
		startedAt: utils.UTCNow(),
	}

	f.mu.Lock()
	f.sessions[session.id] = session
	f.mu.Unlock()

	return f.sessionResponse(ctx, session, "Session started")
}

func (f *CallSessionFlowImpl) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return f.sessionResponse(ctx, session, "Session retrieved")
}

// Advance moves the cursor forward, stopping at the last lead
func (f *CallSessionFlowImpl) Advance(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if session.position < len(session.leadIDs)-1 {
		session.position++
	}
	session.notes = ""
	f.mu.Unlock()

	return f.sessionResponse(ctx, session, "Advanced")
}

// AdvanceOrCycle moves forward and wraps back to the first lead instead of
// finishing the session
func (f *CallSessionFlowImpl) AdvanceOrCycle(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	session.position++
	if session.position >= len(session.leadIDs) {
		session.position = 0
	}
	session.notes = ""
	f.mu.Unlock()

	return f.sessionResponse(ctx, session, "Advanced")
}

// Retreat steps back one lead, stopping at the first
func (f *CallSessionFlowImpl) Retreat(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if session.position > 0 {
		session.position--
	}
	session.notes = ""
	f.mu.Unlock()

	return f.sessionResponse(ctx, session, "Retreated")
}

// JumpRandom moves the cursor to a random lead in the queue
func (f *CallSessionFlowImpl) JumpRandom(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	if len(session.leadIDs) > 0 {
		session.position = rand.Intn(len(session.leadIDs))
	}
	session.notes = ""
	f.mu.Unlock()

	return f.sessionResponse(ctx, session, "Jumped")
}

func (f *CallSessionFlowImpl) SetNotes(ctx context.Context, sessionID string, req *dto.SessionNotesRequest) (*dto.SessionResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	f.mu.Lock()
	session.notes = req.Notes
	f.mu.Unlock()

	return f.sessionResponse(ctx, session, "Notes saved")
}

// CompleteCall records the outcome against the current lead, then cycles
// the cursor forward so the session never runs out of leads
func (f *CallSessionFlowImpl) CompleteCall(ctx context.Context, sessionID string, req *dto.CompleteCallRequest, metadata *ClientMetadata) (*dto.CompleteCallResponse, error) {
	session, err := f.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	f.mu.RLock()
	leadID := session.leadIDs[session.position]
	f.mu.RUnlock()

	recorded, err := f.leadFlow.RecordCall(ctx, leadID, &req.RecordCallRequest, metadata)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	session.position++
	if session.position >= len(session.leadIDs) {
		session.position = 0
	}
	session.notes = ""
	f.mu.Unlock()

	state, err := f.sessionState(ctx, session)
	if err != nil {
		return nil, err
	}

	return &dto.CompleteCallResponse{
		Message:   "Call recorded",
		CallLogID: recorded.CallLogID,
		Session:   *state,
	}, nil
}

func (f *CallSessionFlowImpl) EndSession(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[sessionID]; !ok {
		return NewBusinessError("SESSION_NOT_FOUND", "Session not found", ErrSessionNotFound)
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *CallSessionFlowImpl) lookup(sessionID string) (*callSession, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, NewBusinessError("SESSION_NOT_FOUND", "Session not found", ErrSessionNotFound)
	}
	return session, nil
}

func (f *CallSessionFlowImpl) sessionState(ctx context.Context, session *callSession) (*dto.SessionStateDTO, error) {
	f.mu.RLock()
	state := dto.SessionStateDTO{
		SessionID: session.id,
		QueueID:   session.queueID,
		Position:  session.position,
		Total:     len(session.leadIDs),
		Notes:     session.notes,
		StartedAt: session.startedAt.Format(time.RFC3339),
	}
	currentID := session.leadIDs[session.position]
	f.mu.RUnlock()

	if currentID != 0 {
		lead, err := f.leadRepo.ByID(ctx, currentID)
		if err != nil {
			return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to load current lead", err)
		}
		if lead != nil {
			current := ToLeadDTO(*lead)
			state.CurrentLead = &current
		}
	}
	return &state, nil
}

func (f *CallSessionFlowImpl) sessionResponse(ctx context.Context, session *callSession, message string) (*dto.SessionResponse, error) {
	state, err := f.sessionState(ctx, session)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		Message: message,
		Session: *state,
	}, nil
}
