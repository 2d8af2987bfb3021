package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GatewayEvent is an audit row for one webhook delivery. Notifications are
// expected to arrive duplicated and out of order, so this is an append-only
// log, not a dedup gate.
type GatewayEvent struct {
	ID          string         `gorm:"type:char(36);primaryKey"`
	Topic       string         `gorm:"type:varchar(64);not null;index:ix_gateway_events_topic"`
	ResourceID  string         `gorm:"type:varchar(128);not null"`
	OrderID     string         `gorm:"type:char(36);not null;index:ix_gateway_events_order_id"`
	PayloadJSON datatypes.JSON `gorm:"type:json"`

	ReceivedAt   time.Time  `gorm:"type:datetime(3);not null"`
	ProcessedAt  *time.Time `gorm:"type:datetime(3)"`
	ProcessError *string    `gorm:"type:varchar(255)"`
}

func (GatewayEvent) TableName() string { return "gateway_events" }

type NotificationLog interface {
	Record(ctx context.Context, ev *GatewayEvent) error
	Finish(ctx context.Context, id string, processErr error) error
}

type EventLog struct{ db *gorm.DB }

func NewEventLog(db *gorm.DB) *EventLog { return &EventLog{db: db} }

func (l *EventLog) Record(ctx context.Context, ev *GatewayEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	return l.db.WithContext(ctx).Create(ev).Error
}

func (l *EventLog) Finish(ctx context.Context, id string, processErr error) error {
	now := time.Now()
	fields := map[string]any{"processed_at": &now, "process_error": nil}
	if processErr != nil {
		fields["process_error"] = truncate(processErr.Error(), 250)
	}
	return l.db.WithContext(ctx).Model(&GatewayEvent{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
