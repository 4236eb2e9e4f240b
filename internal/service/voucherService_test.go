package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/fixtures"
)

func TestResolveVoucher(t *testing.T) {
	svc := NewVoucherService(fixtures.Vouchers())

	tests := []struct {
		name     string
		code     string
		wantCode string
		wantErr  bool
	}{
		{name: "exact match", code: "MAINHEMAT15K", wantCode: "MAINHEMAT15K"},
		{name: "lowercase", code: "newmember90", wantCode: "NEWMEMBER90"},
		{name: "surrounding spaces", code: "  LOYALTY10 ", wantCode: "LOYALTY10"},
		{name: "special code outside catalog", code: "diskon50k", wantCode: "DISKON50K"},
		{name: "unknown code", code: "NOSUCHCODE", wantErr: true},
		{name: "empty code", code: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := svc.Resolve(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrVoucherNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, v.Code)
		})
	}
}

func TestSpecialVoucherValue(t *testing.T) {
	svc := NewVoucherService(fixtures.Vouchers())

	v, err := svc.Resolve("DISKON50K")
	require.NoError(t, err)
	assert.Equal(t, entity.VoucherKindFixed, v.Kind)
	assert.Equal(t, float64(50000), v.Value)
}

func TestListVouchersExcludesSpecialCode(t *testing.T) {
	svc := NewVoucherService(fixtures.Vouchers())

	for _, v := range svc.ListVouchers() {
		assert.NotEqual(t, "DISKON50K", v.Code)
	}
}

func TestListVouchersReturnsCopy(t *testing.T) {
	svc := NewVoucherService(fixtures.Vouchers())

	list := svc.ListVouchers()
	require.NotEmpty(t, list)
	original := list[0].Code
	list[0].Code = "MUTATED"

	again := svc.ListVouchers()
	assert.Equal(t, original, again[0].Code)
}
