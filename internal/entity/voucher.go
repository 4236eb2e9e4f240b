package entity

type VoucherKind string

const (
	VoucherKindPercentage VoucherKind = "percentage"
	VoucherKindFixed      VoucherKind = "fixed"
)

// Voucher is a named discount rule. Percentage vouchers carry a fraction of
// the ticket subtotal (0.2 = 20% off), fixed vouchers carry an IDR amount.
type Voucher struct {
	Code        string      `json:"code"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Kind        VoucherKind `json:"kind"`
	Value       float64     `json:"value"`
}
