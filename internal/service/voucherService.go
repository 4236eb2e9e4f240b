package service

import (
	"strings"

	"github.com/tisport/tisport/internal/entity"
)

// specialVoucherCode is a promo code distributed out of band (stickers,
// community chat). It is not listed in the public catalog but always
// resolves to a fixed 50,000 IDR discount.
const specialVoucherCode = "DISKON50K"

var specialVoucher = entity.Voucher{
	Code:        specialVoucherCode,
	Title:       "Diskon Spesial 50K",
	Description: "Potongan langsung Rp50.000",
	Kind:        entity.VoucherKindFixed,
	Value:       50000,
}

type voucherService struct {
	catalog []entity.Voucher
	byCode  map[string]entity.Voucher
}

func NewVoucherService(catalog []entity.Voucher) VoucherService {
	byCode := make(map[string]entity.Voucher, len(catalog))
	for _, v := range catalog {
		byCode[strings.ToUpper(v.Code)] = v
	}
	return &voucherService{catalog: catalog, byCode: byCode}
}

func (s *voucherService) ListVouchers() []entity.Voucher {
	out := make([]entity.Voucher, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Resolve looks a code up case-insensitively. Unknown codes are an explicit
// rejection, never a silent zero discount.
func (s *voucherService) Resolve(code string) (*entity.Voucher, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, entity.ErrVoucherNotFound
	}

	if normalized == specialVoucherCode {
		v := specialVoucher
		return &v, nil
	}

	v, ok := s.byCode[normalized]
	if !ok {
		return nil, entity.ErrVoucherNotFound
	}
	return &v, nil
}
