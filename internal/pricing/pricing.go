package pricing

import (
	"math"

	"github.com/tisport/tisport/internal/entity"
)

// Checkout business constants. Values are IDR.
const (
	PlatformFeeIDR = 1000

	// Loyalty points: 25 points per complete 25,000 IDR of ticket spend.
	// Donation and fee never earn points.
	PointStepIDR  = 25000
	PointsPerStep = 25

	MinQuantity = 1
	MaxQuantity = 10
)

// Quote is the full checkout breakdown for one order.
type Quote struct {
	Quantity       int    `json:"quantity"`
	TicketSubtotal int64  `json:"ticket_subtotal"`
	DonationIDR    int64  `json:"donation_idr"`
	FeeIDR         int64  `json:"fee_idr"`
	DiscountIDR    int64  `json:"discount_idr"`
	TotalIDR       int64  `json:"total_idr"`
	Points         int64  `json:"points"`
	VoucherCode    string `json:"voucher_code,omitempty"`
	VoucherTitle   string `json:"voucher_title,omitempty"`
}

// ClampQuantity forces quantity into [MinQuantity, MaxQuantity].
func ClampQuantity(q int) int {
	if q < MinQuantity {
		return MinQuantity
	}
	if q > MaxQuantity {
		return MaxQuantity
	}
	return q
}

// TicketPoints computes loyalty points earned on a ticket subtotal.
func TicketPoints(ticketSubtotal int64) int64 {
	if ticketSubtotal <= 0 {
		return 0
	}
	return (ticketSubtotal / PointStepIDR) * PointsPerStep
}

// Discount computes the IDR discount a voucher yields on a ticket subtotal.
// Percentage vouchers apply to the ticket subtotal only, never to donation
// or fee.
func Discount(v *entity.Voucher, ticketSubtotal int64) int64 {
	if v == nil {
		return 0
	}
	switch v.Kind {
	case entity.VoucherKindFixed:
		return int64(v.Value)
	case entity.VoucherKindPercentage:
		return int64(math.Round(float64(ticketSubtotal) * v.Value))
	}
	return 0
}

// Evaluate produces the checkout breakdown for an order. Quantity is clamped,
// negative donations are treated as zero and the total never goes below zero
// even when the discount exceeds everything else.
func Evaluate(unitPriceIDR int64, quantity int, donationIDR int64, v *entity.Voucher) Quote {
	quantity = ClampQuantity(quantity)
	if donationIDR < 0 {
		donationIDR = 0
	}

	subtotal := unitPriceIDR * int64(quantity)
	discount := Discount(v, subtotal)

	total := subtotal + donationIDR + PlatformFeeIDR - discount
	if total < 0 {
		total = 0
	}

	q := Quote{
		Quantity:       quantity,
		TicketSubtotal: subtotal,
		DonationIDR:    donationIDR,
		FeeIDR:         PlatformFeeIDR,
		DiscountIDR:    discount,
		TotalIDR:       total,
		Points:         TicketPoints(subtotal),
	}
	if v != nil {
		q.VoucherCode = v.Code
		q.VoucherTitle = v.Title
	}
	return q
}
