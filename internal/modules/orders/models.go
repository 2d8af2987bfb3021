package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed" // gateway "approved", normalized
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
	StatusBack      = "charged_back"
)

// NormalizeStatus maps a raw gateway payment status to the order status
// vocabulary: "approved" becomes "completed", everything else is kept verbatim.
func NormalizeStatus(raw string) string {
	if raw == "approved" {
		return StatusCompleted
	}
	return raw
}

// IsTerminal reports whether no further business-meaningful transition is
// expected from the given status.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusRejected, StatusCancelled, StatusRefunded, StatusBack:
		return true
	}
	return false
}

// Order is the unit of truth for one checkout attempt. The id doubles as the
// gateway correlation token (external_reference) and rides the notification
// URL as a query parameter, so reconciliation never depends on one channel.
type Order struct {
	ID          string          `gorm:"type:char(36);primaryKey"`
	ProductID   string          `gorm:"type:varchar(64);not null"`
	Quantity    int             `gorm:"not null"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PayerEmail  string          `gorm:"type:varchar(255);not null"`
	Status      string          `gorm:"type:varchar(32);not null;index:ix_orders_status"`

	// Gateway fields, null until the matching flow fills them in.
	MPPreferenceID *string `gorm:"column:mp_preference_id;type:varchar(128)"`
	MPPaymentID    *string `gorm:"column:mp_payment_id;type:varchar(64)"`
	MPStatus       *string `gorm:"column:mp_status;type:varchar(32)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }
