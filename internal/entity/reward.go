package entity

import "time"

type PointReason string

const (
	PointReasonOnboarding     PointReason = "onboarding"
	PointReasonTicketPurchase PointReason = "ticket_purchase"
	PointReasonAdminAdjust    PointReason = "admin_adjustment"
)

// PointEntry is one append-only row of the loyalty points ledger. A user's
// balance is the sum of their entries.
type PointEntry struct {
	ID        int64       `json:"id" db:"id"`
	UserID    int64       `json:"user_id" db:"user_id"`
	OrderID   *int64      `json:"order_id,omitempty" db:"order_id"`
	Points    int64       `json:"points" db:"points"`
	Reason    PointReason `json:"reason" db:"reason"`
	Note      string      `json:"note,omitempty" db:"note"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}
