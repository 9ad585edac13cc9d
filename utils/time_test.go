package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 7, 4, 18, 45, 12, 999, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), StartOfDay(at))

	est := time.FixedZone("EST", -5*3600)
	late := time.Date(2025, 7, 4, 23, 30, 0, 0, est) // 04:30 UTC next day
	assert.Equal(t, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), StartOfDay(late))
}

func TestUTCNowRFC3339(t *testing.T) {
	stamp := UTCNowRFC3339()
	parsed, err := time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}
