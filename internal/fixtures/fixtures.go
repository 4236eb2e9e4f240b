// Package fixtures reads the static JSON catalogs the platform ships with:
// the events catalog used to seed the database on first start, and the
// read-only payment methods catalog.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

// eventRecord mirrors the wire format of data/events.json, which keeps the
// camelCase field names of the original catalog.
type eventRecord struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Venue        string   `json:"venue"`
	VenueAddress string   `json:"venueAddress"`
	VenueMapURL  string   `json:"venueMapUrl"`
	StartsAt     string   `json:"startsAt"`
	EndsAt       string   `json:"endsAt"`
	Capacity     int      `json:"capacity"`
	PriceIDR     int64    `json:"priceIDR"`
	Status       string   `json:"status"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	IsMembership bool     `json:"isMembership"`
	Membership   *struct {
		PriceIDR     int64                `json:"priceIDR"`
		Description  string               `json:"description"`
		SessionDates []entity.SessionDate `json:"sessionDates"`
	} `json:"membershipDetails,omitempty"`
}

// LoadEvents parses the events catalog fixture.
func LoadEvents(path string) ([]*entity.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events fixture: %w", err)
	}

	var records []eventRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse events fixture: %w", err)
	}

	events := make([]*entity.Event, 0, len(records))
	for _, rec := range records {
		ev, err := rec.toEvent()
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", rec.Slug, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (rec *eventRecord) toEvent() (*entity.Event, error) {
	startsAt, err := time.Parse(time.RFC3339, rec.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid startsAt: %w", err)
	}
	endsAt, err := time.Parse(time.RFC3339, rec.EndsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid endsAt: %w", err)
	}

	status := entity.EventStatus(rec.Status)
	switch status {
	case entity.EventStatusOpen, entity.EventStatusClosed, entity.EventStatusCanceled:
	default:
		return nil, fmt.Errorf("unknown event status %q", rec.Status)
	}

	ev := &entity.Event{
		Slug:         rec.Slug,
		Title:        rec.Title,
		Description:  rec.Description,
		Venue:        rec.Venue,
		VenueAddress: rec.VenueAddress,
		VenueMapURL:  rec.VenueMapURL,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		Capacity:     rec.Capacity,
		PriceIDR:     rec.PriceIDR,
		Status:       status,
		Category:     rec.Category,
		IsMembership: rec.IsMembership,
	}
	if rec.Membership != nil {
		ev.Membership = &entity.Membership{
			PriceIDR:     rec.Membership.PriceIDR,
			Description:  rec.Membership.Description,
			SessionDates: rec.Membership.SessionDates,
		}
	}
	return ev, nil
}

// LoadPaymentMethods parses the payment methods catalog fixture.
func LoadPaymentMethods(path string) ([]entity.PaymentMethod, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment methods fixture: %w", err)
	}

	var records []struct {
		ID            string `json:"id"`
		Type          string `json:"type"`
		DisplayName   string `json:"displayName"`
		QRISURL       string `json:"qrisUrl,omitempty"`
		AccountNumber string `json:"accountNumber,omitempty"`
		AccountName   string `json:"accountName,omitempty"`
		IsActive      bool   `json:"isActive"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse payment methods fixture: %w", err)
	}

	methods := make([]entity.PaymentMethod, 0, len(records))
	for _, rec := range records {
		methods = append(methods, entity.PaymentMethod{
			ID:            rec.ID,
			Type:          rec.Type,
			DisplayName:   rec.DisplayName,
			QRISURL:       rec.QRISURL,
			AccountNumber: rec.AccountNumber,
			AccountName:   rec.AccountName,
			IsActive:      rec.IsActive,
		})
	}
	return methods, nil
}
