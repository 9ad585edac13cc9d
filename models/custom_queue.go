package models

import (
	"time"

	"github.com/lib/pq"
)

// CustomQueue is a named, user-curated ordered subset of lead ids.
// LeadIDs may contain duplicates and may reference leads that no longer
// exist; the queue resolver drops dangling ids at read time.
type CustomQueue struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	LeadIDs     pq.Int64Array `gorm:"type:bigint[]" json:"lead_ids"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (CustomQueue) TableName() string {
	return "custom_queues"
}

// ContainsLead reports whether the queue references the given lead id
func (q *CustomQueue) ContainsLead(id uint) bool {
	for _, leadID := range q.LeadIDs {
		if leadID == int64(id) {
			return true
		}
	}
	return false
}

// CustomQueueFilter represents filter criteria for custom queue queries
type CustomQueueFilter struct {
	ID   *uint
	Name *string
}
