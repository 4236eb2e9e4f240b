package entity

import (
	"time"
)

type EventStatus string

const (
	EventStatusOpen     EventStatus = "OPEN"
	EventStatusClosed   EventStatus = "CLOSED"
	EventStatusCanceled EventStatus = "CANCELED"
)

type Event struct {
	ID           int64       `json:"id" db:"id"`
	Slug         string      `json:"slug" db:"slug"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	Venue        string      `json:"venue" db:"venue"`
	VenueAddress string      `json:"venue_address" db:"venue_address"`
	VenueMapURL  string      `json:"venue_map_url" db:"venue_map_url"`
	StartsAt     time.Time   `json:"starts_at" db:"starts_at"`
	EndsAt       time.Time   `json:"ends_at" db:"ends_at"`
	Capacity     int         `json:"capacity" db:"capacity"`
	PriceIDR     int64       `json:"price_idr" db:"price_idr"`
	Status       EventStatus `json:"status" db:"status"`
	Category     string      `json:"category" db:"category"`
	IsMembership bool        `json:"is_membership" db:"is_membership"`
	Membership   *Membership `json:"membership,omitempty"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// Membership describes a recurring multi-session package attached to an
// event, as opposed to a single-session ticket.
type Membership struct {
	PriceIDR     int64         `json:"price_idr"`
	Description  string        `json:"description"`
	SessionDates []SessionDate `json:"session_dates"`
}

type EventWithAvailability struct {
	Event
	AvailableSeats int `json:"available_seats"`
	BookedSeats    int `json:"booked_seats"`
}

// IsBookable reports whether new orders may be placed against the event.
func (e *Event) IsBookable(now time.Time) bool {
	return e.Status == EventStatusOpen && e.StartsAt.After(now)
}
