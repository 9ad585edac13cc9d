// Package businessflow contains the core business logic and use cases for the CRM workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Lead-related errors
	ErrLeadNotFound            = errors.New("lead not found")
	ErrCompanyRequired         = errors.New("company name is required")
	ErrInvalidCallOutcome      = errors.New("invalid call outcome")
	ErrMeetingDateTimeRequired = errors.New("meeting date and time are required when a meeting is set")

	// Queue-related errors
	ErrQueueNotFound     = errors.New("queue not found")
	ErrQueueNameRequired = errors.New("queue name is required")
	ErrQueueEmpty        = errors.New("queue has no due leads")

	// Prospect-related errors
	ErrProspectNotFound     = errors.New("prospect not found")
	ErrInvalidDecision      = errors.New("invalid review decision")
	ErrNoFinalizedProspects = errors.New("no finalized prospects to convert")

	// Import/export errors
	ErrEmptyImport     = errors.New("import text is empty")
	ErrNothingToExport = errors.New("no leads to export")

	// Session-related errors
	ErrSessionNotFound = errors.New("session not found")

	// Scrape-related errors
	ErrScrapeNotFound       = errors.New("scrape session not found")
	ErrScrapeStillRunning   = errors.New("scrape session is still running")
	ErrScrapeAlreadyStopped = errors.New("scrape session already stopped")
	ErrScrapeNoResults      = errors.New("scrape session has no results")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsQueueNotFound(err error) bool {
	return errors.Is(err, ErrQueueNotFound)
}

func IsProspectNotFound(err error) bool {
	return errors.Is(err, ErrProspectNotFound)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsScrapeNotFound(err error) bool {
	return errors.Is(err, ErrScrapeNotFound)
}

func IsEmptyImport(err error) bool {
	return errors.Is(err, ErrEmptyImport)
}

func IsInvalidCallOutcome(err error) bool {
	return errors.Is(err, ErrInvalidCallOutcome)
}
