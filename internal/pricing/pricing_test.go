package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tisport/tisport/internal/entity"
)

func TestClampQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{name: "zero clamps to minimum", quantity: 0, want: 1},
		{name: "negative clamps to minimum", quantity: -3, want: 1},
		{name: "minimum passes through", quantity: 1, want: 1},
		{name: "middle passes through", quantity: 5, want: 5},
		{name: "maximum passes through", quantity: 10, want: 10},
		{name: "above maximum clamps", quantity: 11, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampQuantity(tt.quantity))
		})
	}
}

func TestTicketPoints(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		want     int64
	}{
		{name: "two tickets at 75k earn 150 points", subtotal: 150000, want: 150},
		{name: "just under a step earns nothing extra", subtotal: 49999, want: 25},
		{name: "below first step earns zero", subtotal: 24999, want: 0},
		{name: "exact step boundary", subtotal: 25000, want: 25},
		{name: "zero subtotal", subtotal: 0, want: 0},
		{name: "negative subtotal", subtotal: -5000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TicketPoints(tt.subtotal))
		})
	}
}

func TestDiscount(t *testing.T) {
	percent20 := &entity.Voucher{Code: "WEEKENDSERU", Kind: entity.VoucherKindPercentage, Value: 0.2}
	fixed15k := &entity.Voucher{Code: "MAINHEMAT15K", Kind: entity.VoucherKindFixed, Value: 15000}

	tests := []struct {
		name     string
		voucher  *entity.Voucher
		subtotal int64
		want     int64
	}{
		{name: "20 percent of 150k", voucher: percent20, subtotal: 150000, want: 30000},
		{name: "fixed amount ignores subtotal", voucher: fixed15k, subtotal: 1000000, want: 15000},
		{name: "fixed amount on small subtotal", voucher: fixed15k, subtotal: 5000, want: 15000},
		{name: "nil voucher yields zero", voucher: nil, subtotal: 150000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Discount(tt.voucher, tt.subtotal))
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("reference checkout from the booking funnel", func(t *testing.T) {
		// Event priced 75,000 IDR, two tickets.
		q := Evaluate(75000, 2, 0, nil)

		assert.Equal(t, int64(150000), q.TicketSubtotal)
		assert.Equal(t, int64(150), q.Points)
		assert.Equal(t, int64(PlatformFeeIDR), q.FeeIDR)
		assert.Equal(t, int64(151000), q.TotalIDR)
	})

	t.Run("percentage voucher discounts ticket subtotal only", func(t *testing.T) {
		v := &entity.Voucher{Code: "WEEKENDSERU", Title: "Promo Weekend", Kind: entity.VoucherKindPercentage, Value: 0.2}
		q := Evaluate(75000, 2, 20000, v)

		assert.Equal(t, int64(30000), q.DiscountIDR, "20%% applies to 150k tickets, not the donation")
		assert.Equal(t, int64(150000+20000+1000-30000), q.TotalIDR)
		assert.Equal(t, "WEEKENDSERU", q.VoucherCode)
	})

	t.Run("total never goes negative", func(t *testing.T) {
		v := &entity.Voucher{Code: "BIG", Kind: entity.VoucherKindFixed, Value: 900000}
		q := Evaluate(75000, 1, 0, v)

		assert.Equal(t, int64(0), q.TotalIDR)
		assert.Equal(t, int64(900000), q.DiscountIDR)
	})

	t.Run("quantity is clamped before pricing", func(t *testing.T) {
		q := Evaluate(75000, 0, 0, nil)
		assert.Equal(t, 1, q.Quantity)
		assert.Equal(t, int64(75000), q.TicketSubtotal)

		q = Evaluate(75000, 11, 0, nil)
		assert.Equal(t, 10, q.Quantity)
		assert.Equal(t, int64(750000), q.TicketSubtotal)
	})

	t.Run("negative donation is ignored", func(t *testing.T) {
		q := Evaluate(75000, 1, -5000, nil)
		assert.Equal(t, int64(0), q.DonationIDR)
		assert.Equal(t, int64(76000), q.TotalIDR)
	})

	t.Run("points ignore donation and fee", func(t *testing.T) {
		q := Evaluate(20000, 1, 500000, nil)
		assert.Equal(t, int64(0), q.Points, "20k of tickets is below the first point step")
	})
}
