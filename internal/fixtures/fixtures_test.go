package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tisport/tisport/internal/entity"
)

func TestLoadEvents(t *testing.T) {
	events, err := LoadEvents(filepath.Join("testdata", "events.json"))
	require.NoError(t, err)
	require.Len(t, events, 4)

	first := events[0]
	assert.Equal(t, "fun-match-jumat-malam", first.Slug)
	assert.Equal(t, entity.EventStatusOpen, first.Status)
	assert.Equal(t, int64(75000), first.PriceIDR)
	assert.Equal(t, 24, first.Capacity)
	assert.False(t, first.IsMembership)
	assert.Nil(t, first.Membership)

	var membership *entity.Event
	for _, ev := range events {
		if ev.IsMembership {
			membership = ev
		}
	}
	require.NotNil(t, membership, "fixture should contain a membership batch")
	require.NotNil(t, membership.Membership)
	assert.Equal(t, int64(300000), membership.Membership.PriceIDR)
	assert.Len(t, membership.Membership.SessionDates, 4)
	assert.Equal(t, "2026-09-05", membership.Membership.SessionDates[0].Format("2006-01-02"))
}

func TestLoadEventsRejectsBadStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	bad := `[{"slug":"x","title":"X","startsAt":"2026-09-18T19:00:00+07:00","endsAt":"2026-09-18T22:00:00+07:00","capacity":10,"priceIDR":50000,"status":"DRAFT"}]`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadEvents(path)
	assert.Error(t, err)
}

func TestLoadEventsMissingFile(t *testing.T) {
	_, err := LoadEvents(filepath.Join("testdata", "nope.json"))
	assert.Error(t, err)
}

func TestLoadPaymentMethods(t *testing.T) {
	methods, err := LoadPaymentMethods(filepath.Join("testdata", "payment-methods.json"))
	require.NoError(t, err)
	require.Len(t, methods, 3)

	assert.Equal(t, "pm-qris", methods[0].ID)
	assert.Equal(t, "qris", methods[0].Type)
	assert.True(t, methods[0].IsActive)

	assert.Equal(t, "bank_transfer", methods[1].Type)
	assert.Equal(t, "8830127745", methods[1].AccountNumber)
	assert.False(t, methods[2].IsActive)
}

func TestVouchersCatalog(t *testing.T) {
	catalog := Vouchers()
	require.Len(t, catalog, 7)

	// Mutating the copy must not touch the catalog.
	catalog[0].Code = "HACKED"
	assert.Equal(t, "NEWMEMBER90", Vouchers()[0].Code)
}
