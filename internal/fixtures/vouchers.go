package fixtures

import "github.com/tisport/tisport/internal/entity"

// Voucher catalog. Static by design: vouchers are marketing campaigns edited
// with a deploy, not user data.
var vouchers = []entity.Voucher{
	{Code: "NEWMEMBER90", Title: "Voucher Member Baru", Description: "Diskon 90% tiket", Kind: entity.VoucherKindPercentage, Value: 0.9},
	{Code: "WEEKENDSERU", Title: "Promo Weekend", Description: "Diskon 20% semua event", Kind: entity.VoucherKindPercentage, Value: 0.2},
	{Code: "MAINHEMAT15K", Title: "Main Lebih Hemat", Description: "Potongan langsung Rp 15.000", Kind: entity.VoucherKindFixed, Value: 15000},
	{Code: "PLAYERBARU50", Title: "Diskon Pemain Baru", Description: "Diskon 50% untuk pendaftar pertama", Kind: entity.VoucherKindPercentage, Value: 0.5},
	{Code: "LOYALTY10", Title: "Bonus Loyalitas", Description: "Diskon 10% untuk member setia", Kind: entity.VoucherKindPercentage, Value: 0.1},
	{Code: "BOOKINGRAME", Title: "Booking Rombongan", Description: "Potongan Rp 25.000 min. 2 tiket", Kind: entity.VoucherKindFixed, Value: 25000},
	{Code: "AFTERWORKSMASH", Title: "Promo After-Work", Description: "Potongan Rp 10.000", Kind: entity.VoucherKindFixed, Value: 10000},
}

// Vouchers returns a copy of the voucher catalog.
func Vouchers() []entity.Voucher {
	out := make([]entity.Voucher, len(vouchers))
	copy(out, vouchers)
	return out
}
