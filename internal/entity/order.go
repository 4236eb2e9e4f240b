package entity

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusInReview       OrderStatus = "in_review"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusExpired        OrderStatus = "expired"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Order is the server-side record of a booking. The checkout breakdown
// (donation, discount, fee, total, points) is frozen at creation time so a
// voucher catalog change never rewrites an existing order.
type Order struct {
	ID              int64       `json:"id" db:"id"`
	Code            string      `json:"code" db:"code"`
	EventID         int64       `json:"event_id" db:"event_id"`
	UserID          int64       `json:"user_id" db:"user_id"`
	Quantity        int         `json:"quantity" db:"quantity"`
	Participants    []string    `json:"participants" db:"participants"`
	TicketIDR       int64       `json:"ticket_idr" db:"ticket_idr"`
	DonationIDR     int64       `json:"donation_idr" db:"donation_idr"`
	DiscountIDR     int64       `json:"discount_idr" db:"discount_idr"`
	VoucherCode     string      `json:"voucher_code,omitempty" db:"voucher_code"`
	VoucherTitle    string      `json:"voucher_title,omitempty" db:"voucher_title"`
	FeeIDR          int64       `json:"fee_idr" db:"fee_idr"`
	TotalIDR        int64       `json:"total_idr" db:"total_idr"`
	Points          int64       `json:"points" db:"points"`
	Status          OrderStatus `json:"status" db:"status"`
	PaymentMethodID string      `json:"payment_method_id,omitempty" db:"payment_method_id"`
	ProofURL        string      `json:"proof_url,omitempty" db:"proof_url"`
	ExpiresAt       time.Time   `json:"expires_at" db:"expires_at"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderExpiration is the projection consumed by the expiry worker and the
// notifier, joined across orders, events and users.
type OrderExpiration struct {
	OrderID    int64     `json:"order_id"`
	OrderCode  string    `json:"order_code"`
	ExpiresAt  time.Time `json:"expires_at"`
	UserID     int64     `json:"user_id"`
	EventID    int64     `json:"event_id"`
	TelegramID string    `json:"telegram_id"`
	UserName   string    `json:"user_name"`
	EventTitle string    `json:"event_title"`
	Quantity   int       `json:"quantity"`
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case OrderStatusPaid, OrderStatusExpired, OrderStatusCancelled:
		return true
	}
	return false
}

// PastDue reports whether the payment window has closed for a still pending
// order.
func (o *Order) PastDue(now time.Time) bool {
	return o.Status == OrderStatusPendingPayment && now.After(o.ExpiresAt)
}
