package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisport/tisport/internal/entity"
)

func TestMaskName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "two words", in: "Budi Santoso", want: "Budi S."},
		{name: "three words", in: "Siti Nur Rahma", want: "Siti N. R."},
		{name: "single word", in: "Budi", want: "Budi"},
		{name: "extra spaces", in: "  Budi   Santoso ", want: "Budi S."},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskName(tt.in))
		})
	}
}

func TestGetEventParticipantsMasksPaidOnly(t *testing.T) {
	eventRepo := newFakeEventRepo()
	orderRepo := newFakeOrderRepo()
	svc := NewEventService(eventRepo, orderRepo, nil)

	event := eventRepo.add(&entity.EventWithAvailability{
		Event: entity.Event{
			Slug: "fun-match", Capacity: 24,
			StartsAt: time.Now().Add(24 * time.Hour),
			Status:   entity.EventStatusOpen,
		},
	})

	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 2, Status: entity.OrderStatusPaid,
		Participants: []string{"Budi Santoso", "Siti Rahma"},
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 1, Status: entity.OrderStatusPendingPayment,
		Participants: []string{"Andi Wijaya"},
	}))

	names, err := svc.GetEventParticipants(context.Background(), event.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Budi S.", "Siti R."}, names)
}

func TestGetEventStats(t *testing.T) {
	eventRepo := newFakeEventRepo()
	orderRepo := newFakeOrderRepo()
	svc := NewEventService(eventRepo, orderRepo, nil)

	event := eventRepo.add(&entity.EventWithAvailability{
		Event: entity.Event{
			Slug: "sparring", Capacity: 20,
			StartsAt: time.Now().Add(24 * time.Hour),
			Status:   entity.EventStatusOpen,
		},
	})

	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 4, TotalIDR: 381000, Status: entity.OrderStatusPaid,
		Participants: []string{"A", "B", "C", "D"},
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 2, TotalIDR: 191000, Status: entity.OrderStatusPendingPayment,
		Participants: []string{"E", "F"},
	}))
	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 3, TotalIDR: 286000, Status: entity.OrderStatusExpired,
		Participants: []string{"G", "H", "I"},
	}))

	stats, err := svc.GetEventStats(context.Background(), event.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.OrderStats.TotalOrders)
	assert.Equal(t, 4, stats.OrderStats.PaidSeats)
	assert.Equal(t, 2, stats.OrderStats.PendingSeats)
	assert.Equal(t, 3, stats.OrderStats.ExpiredSeats)
	assert.Equal(t, int64(381000), stats.OrderStats.RevenueIDR)
	assert.Equal(t, 20-4-2, stats.AvailableSeats)
	assert.InDelta(t, 4.0/7.0, stats.ConversionRate, 0.001)
}

func TestGetEventStatsServedFromCache(t *testing.T) {
	eventRepo := newFakeEventRepo()
	orderRepo := newFakeOrderRepo()
	cache := newFakeEventCache()
	svc := NewEventService(eventRepo, orderRepo, cache)

	event := eventRepo.add(&entity.EventWithAvailability{
		Event: entity.Event{
			Slug: "sparring", Capacity: 20,
			StartsAt: time.Now().Add(24 * time.Hour),
			Status:   entity.EventStatusOpen,
		},
	})

	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 4, TotalIDR: 381000, Status: entity.OrderStatusPaid,
		Participants: []string{"A", "B", "C", "D"},
	}))

	first, err := svc.GetEventStats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.OrderStats.TotalOrders)

	// New orders are invisible until the cached report ages out.
	require.NoError(t, orderRepo.Create(context.Background(), &entity.Order{
		EventID: event.ID, Quantity: 2, TotalIDR: 191000, Status: entity.OrderStatusPaid,
		Participants: []string{"E", "F"},
	}))

	second, err := svc.GetEventStats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrderStats.TotalOrders)

	delete(cache.stats, event.ID)
	third, err := svc.GetEventStats(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, third.OrderStats.TotalOrders)
}

func TestUpdateEventRejectsCapacityBelowBooked(t *testing.T) {
	eventRepo := newFakeEventRepo()
	orderRepo := newFakeOrderRepo()
	svc := NewEventService(eventRepo, orderRepo, nil)

	event := eventRepo.add(&entity.EventWithAvailability{
		Event: entity.Event{
			Slug: "full-house", Capacity: 20,
			StartsAt: time.Now().Add(24 * time.Hour),
			EndsAt:   time.Now().Add(27 * time.Hour),
			Status:   entity.EventStatusOpen,
		},
		BookedSeats:    12,
		AvailableSeats: 8,
	})

	tooSmall := 10
	_, err := svc.UpdateEvent(context.Background(), event.ID, &UpdateEventRequest{Capacity: &tooSmall})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	bigger := 30
	updated, err := svc.UpdateEvent(context.Background(), event.ID, &UpdateEventRequest{Capacity: &bigger})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.Capacity)
}
