package kafka

import (
	"time"

	"github.com/google/uuid"
)

// OutboxRecord is the schema of the outbox_events table. The repository
// talks to the table with plain SQL; the model only exists for migrations.
type OutboxRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RequestID     *string    `gorm:"type:varchar(100)"`
	AggregateType string     `gorm:"type:varchar(50);not null"`
	AggregateID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_outbox_events_aggregate"`
	EventType     string     `gorm:"type:varchar(100);not null"`
	Topic         string     `gorm:"type:varchar(150);not null"`
	Payload       []byte     `gorm:"type:bytea;not null"`
	Status        string     `gorm:"type:varchar(20);not null;default:pending;index:idx_outbox_events_status_created,priority:1"`
	RetryCount    int        `gorm:"not null;default:0"`
	ErrorMessage  *string    `gorm:"type:varchar(500)"`
	NextRetryAt   *time.Time `gorm:"index"`
	ProcessedAt   *time.Time `gorm:"default:null"`
	CreatedAt     time.Time  `gorm:"index:idx_outbox_events_status_created,priority:2"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

func (OutboxRecord) TableName() string {
	return "outbox_events"
}
