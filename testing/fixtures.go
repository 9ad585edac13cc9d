// Package testing provides test utilities and database setup for testing the CRM backend
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lib/pq"

	"github.com/leadline/leadline/models"
	"github.com/leadline/leadline/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestLead creates a lead that has never been called
func (tf *TestFixtures) CreateTestLead(company string) (*models.Lead, error) {
	if company == "" {
		company = fmt.Sprintf("Test Company %d", rand.Intn(100000))
	}

	lead := &models.Lead{
		Company:   company,
		Contact:   "Jordan Smith",
		Email:     fmt.Sprintf("contact.%d@example.com", rand.Intn(100000)),
		Phone:     "(555) 123-4567",
		Industry:  "Plumbing",
		State:     "TX",
		Website:   "https://example.com",
		DateAdded: utils.UTCNow(),
	}

	err := tf.DB.DB.Create(lead).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}

// CreateCalledLead creates a lead whose last call happened the given number of days ago
func (tf *TestFixtures) CreateCalledLead(company string, daysAgo int, outcome models.CallOutcome) (*models.Lead, error) {
	lead, err := tf.CreateTestLead(company)
	if err != nil {
		return nil, err
	}

	calledAt := utils.UTCNow().AddDate(0, 0, -daysAgo)
	lead.LastCalled = &calledAt
	lead.CallOutcome = &outcome

	err = tf.DB.DB.Save(lead).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update test lead: %w", err)
	}

	return lead, nil
}

// CreateTestProspect creates an unreviewed prospect
func (tf *TestFixtures) CreateTestProspect(company string) (*models.Prospect, error) {
	if company == "" {
		company = fmt.Sprintf("Prospect Co %d", rand.Intn(100000))
	}

	prospect := &models.Prospect{
		Company:   company,
		Website:   "https://prospect.example.com",
		State:     "CA",
		Phone:     "(555) 987-6543",
		Source:    "test-import",
		Stage:     models.ProspectStageUnreviewed,
		DateAdded: utils.UTCNow(),
	}

	err := tf.DB.DB.Create(prospect).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test prospect: %w", err)
	}

	return prospect, nil
}

// CreateReviewedProspect creates a prospect carrying the given decision
func (tf *TestFixtures) CreateReviewedProspect(company string, decision models.ProspectDecision) (*models.Prospect, error) {
	prospect, err := tf.CreateTestProspect(company)
	if err != nil {
		return nil, err
	}

	prospect.Decision = &decision
	if decision == models.ProspectDecisionReject {
		prospect.Stage = models.ProspectStageUnqualified
		prospect.Reason = "not a fit"
	}

	err = tf.DB.DB.Save(prospect).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update test prospect: %w", err)
	}

	return prospect, nil
}

// CreateTestQueue creates a custom queue referencing the given lead IDs in order
func (tf *TestFixtures) CreateTestQueue(name string, leadIDs []uint) (*models.CustomQueue, error) {
	if name == "" {
		name = fmt.Sprintf("Queue %d", rand.Intn(100000))
	}

	ids := make(pq.Int64Array, 0, len(leadIDs))
	for _, id := range leadIDs {
		ids = append(ids, int64(id))
	}

	queue := &models.CustomQueue{
		Name:    name,
		LeadIDs: ids,
	}

	err := tf.DB.DB.Create(queue).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test queue: %w", err)
	}

	return queue, nil
}

// CreateTestCallLog creates a call log entry for the given lead
func (tf *TestFixtures) CreateTestCallLog(leadID uint, outcome models.CallOutcome, calledAt time.Time) (*models.CallLog, error) {
	entry := &models.CallLog{
		ID:        fmt.Sprintf("call-%d", calledAt.UnixMilli()),
		LeadID:    leadID,
		Outcome:   outcome,
		Notes:     "test call",
		Timestamp: calledAt,
	}

	err := tf.DB.DB.Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create test call log: %w", err)
	}

	return entry, nil
}

// SeedAppConfig inserts the singleton config row with the given queue window
func (tf *TestFixtures) SeedAppConfig(callQueueDays int) (*models.AppConfig, error) {
	cfg := models.DefaultAppConfig()
	cfg.CallQueueDays = callQueueDays

	err := tf.DB.DB.Create(cfg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to seed app config: %w", err)
	}

	return cfg, nil
}
