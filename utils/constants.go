package utils

import (
	"time"
)

// ContextKey is the type for request-scoped values passed from handlers into flows
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Call queue constants
const (
	// DefaultCallQueueDays is the recency threshold for default-queue membership
	DefaultCallQueueDays = 7

	// DefaultQueueID is the sentinel selecting the time-threshold queue
	DefaultQueueID = "default"
)

// Scraper constants
const (
	// DefaultScrapeMaxResults caps a scrape session when no cap is configured
	DefaultScrapeMaxResults = 100

	// ScrapePageSettleDelay is the settle delay after a page navigation
	ScrapePageSettleDelay = 3 * time.Second
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)
