package entity

import (
	"fmt"
	"time"
)

// EventOrderStats aggregates orders for a single event, bucketed by status.
type EventOrderStats struct {
	TotalOrders    int   `json:"total_orders"`
	PendingSeats   int   `json:"pending_seats"`
	PaidSeats      int   `json:"paid_seats"`
	InReviewSeats  int   `json:"in_review_seats"`
	CancelledSeats int   `json:"cancelled_seats"`
	ExpiredSeats   int   `json:"expired_seats"`
	RevenueIDR     int64 `json:"revenue_idr"`
}

// EventStats is the per-event report served to the admin back-office.
type EventStats struct {
	Event           Event           `json:"event"`
	OrderStats      EventOrderStats `json:"order_stats"`
	UtilizationRate float64         `json:"utilization_rate"`
	AvailableSeats  int             `json:"available_seats"`
	ConversionRate  float64         `json:"conversion_rate"`
}

// SystemStats is the whole-platform summary report.
type SystemStats struct {
	TotalEvents   int64              `json:"total_events"`
	TotalUsers    int64              `json:"total_users"`
	TotalOrders   int64              `json:"total_orders"`
	ActiveEvents  int64              `json:"active_events"`
	RevenueIDR    int64              `json:"revenue_idr"`
	PointsIssued  int64              `json:"points_issued"`
	DailyOrders   int64              `json:"daily_orders"`
	WeeklyOrders  int64              `json:"weekly_orders"`
	MonthlyOrders int64              `json:"monthly_orders"`
	Utilization   float64            `json:"utilization"`
	TopEvents     []*EventOrderCount `json:"top_events,omitempty"`
}

// EventOrderCount pairs an event with its order volume, for top-event lists.
type EventOrderCount struct {
	EventID    int64     `json:"event_id"`
	EventTitle string    `json:"event_title"`
	EventDate  time.Time `json:"event_date"`
	Orders     int64     `json:"orders"`
	Seats      int       `json:"seats"`
}

// AvailableSeats computes remaining capacity. Only paid seats consume
// capacity permanently; pending seats hold it until they expire.
func (s *EventOrderStats) AvailableSeats(capacity int) int {
	return capacity - s.PaidSeats - s.PendingSeats - s.InReviewSeats
}

// UtilizationRate computes the share of capacity sold (0.0 to 1.0).
func (s *EventOrderStats) UtilizationRate(capacity int) float64 {
	if capacity == 0 {
		return 0.0
	}
	return float64(s.PaidSeats) / float64(capacity)
}

// ConversionRate computes paid seats over all settled seats.
func (s *EventOrderStats) ConversionRate() float64 {
	settled := s.PaidSeats + s.CancelledSeats + s.ExpiredSeats
	if settled == 0 {
		return 0.0
	}
	return float64(s.PaidSeats) / float64(settled)
}

func (s *EventStats) String() string {
	return fmt.Sprintf(
		"Event: %s, Utilization: %.1f%%, Available: %d/%d",
		s.Event.Title,
		s.UtilizationRate*100,
		s.AvailableSeats,
		s.Event.Capacity,
	)
}

// NeedsAttention flags events selling poorly close to their start date.
func (s *EventStats) NeedsAttention(now time.Time) bool {
	daysUntilEvent := s.Event.StartsAt.Sub(now).Hours() / 24
	return s.UtilizationRate < 0.3 && daysUntilEvent < 7
}
