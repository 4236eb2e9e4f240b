package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	repository "github.com/tisport/tisport/internal/database/postgres"
	"github.com/tisport/tisport/internal/entity"
)

// EventCache is the slice of the Redis cache the event service uses. A nil
// cache disables caching, reads then go straight to Postgres.
type EventCache interface {
	SetEvent(slug string, event *entity.EventWithAvailability) error
	GetEvent(slug string) (*entity.EventWithAvailability, error)
	DeleteEvent(slug string) error
	IncrementPopularity(slug string) error
	GetPopularEvents(count int) ([]string, error)
	SetEventStats(eventID int64, stats *entity.EventStats) error
	GetEventStats(eventID int64) (*entity.EventStats, error)
}

type eventService struct {
	eventRepo repository.EventRepository
	orderRepo repository.OrderRepository
	cache     EventCache
}

func NewEventService(eventRepo repository.EventRepository, orderRepo repository.OrderRepository, cache EventCache) EventService {
	return &eventService{
		eventRepo: eventRepo,
		orderRepo: orderRepo,
		cache:     cache,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error) {
	if req.EndsAt.Before(req.StartsAt) {
		return nil, entity.ErrInvalidInput
	}
	if req.StartsAt.Before(time.Now()) {
		return nil, entity.ErrEventDatePast
	}

	event := &entity.Event{
		Slug:         req.Slug,
		Title:        req.Title,
		Description:  req.Description,
		Venue:        req.Venue,
		VenueAddress: req.VenueAddress,
		VenueMapURL:  req.VenueMapURL,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Capacity:     req.Capacity,
		PriceIDR:     req.PriceIDR,
		Status:       entity.EventStatusOpen,
		Category:     req.Category,
		IsMembership: req.IsMembership,
		Membership:   req.Membership,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"event_id": event.ID,
		"slug":     event.Slug,
	}).Info("event created")
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*entity.EventWithAvailability, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// GetEventBySlug serves the event detail page. Cache hits still bump the
// popularity counter.
func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*entity.EventWithAvailability, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEvent(slug); err == nil {
			s.bumpPopularity(slug)
			return cached, nil
		}
	}

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetEvent(slug, event); err != nil {
			logrus.WithError(err).WithField("slug", slug).Warn("failed to cache event")
		}
		s.bumpPopularity(slug)
	}
	return event, nil
}

func (s *eventService) bumpPopularity(slug string) {
	if err := s.cache.IncrementPopularity(slug); err != nil {
		logrus.WithError(err).WithField("slug", slug).Warn("failed to bump event popularity")
	}
}

func (s *eventService) GetAllEvents(ctx context.Context) ([]*entity.EventWithAvailability, error) {
	return s.eventRepo.GetAll(ctx)
}

func (s *eventService) GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.EventWithAvailability, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.eventRepo.GetUpcomingEvents(ctx, limit)
}

func (s *eventService) SearchEventsByTitle(ctx context.Context, title string) ([]*entity.EventWithAvailability, error) {
	if strings.TrimSpace(title) == "" {
		return nil, entity.ErrInvalidInput
	}
	return s.eventRepo.SearchByTitle(ctx, title)
}

func (s *eventService) UpdateEvent(ctx context.Context, id int64, req *UpdateEventRequest) (*entity.Event, error) {
	current, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event := current.Event
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.VenueAddress != nil {
		event.VenueAddress = *req.VenueAddress
	}
	if req.VenueMapURL != nil {
		event.VenueMapURL = *req.VenueMapURL
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = *req.EndsAt
	}
	if req.Capacity != nil {
		// Capacity cannot drop below seats already held.
		if *req.Capacity < current.BookedSeats {
			return nil, entity.ErrInvalidInput
		}
		event.Capacity = *req.Capacity
	}
	if req.PriceIDR != nil {
		event.PriceIDR = *req.PriceIDR
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.Category != nil {
		event.Category = *req.Category
	}

	if event.EndsAt.Before(event.StartsAt) {
		return nil, entity.ErrInvalidInput
	}

	if err := s.eventRepo.Update(ctx, &event); err != nil {
		return nil, err
	}

	s.invalidateCache(event.Slug)
	return &event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	orders, err := s.orderRepo.GetByEventID(ctx, id)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if !order.IsTerminal() || order.Status == entity.OrderStatusPaid {
			return entity.ErrInvalidOrderState
		}
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(event.Slug)
	logrus.WithField("event_id", id).Info("event deleted")
	return nil
}

func (s *eventService) invalidateCache(slug string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteEvent(slug); err != nil {
		logrus.WithError(err).WithField("slug", slug).Warn("failed to invalidate event cache")
	}
}

// GetEventParticipants returns the attendee list of an event, masked for
// public display. "Budi Santoso" becomes "Budi S.".
func (s *eventService) GetEventParticipants(ctx context.Context, eventID int64) ([]string, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	names, err := s.orderRepo.GetPaidParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	masked := make([]string, 0, len(names))
	for _, name := range names {
		masked = append(masked, MaskName(name))
	}
	return masked, nil
}

// MaskName keeps the first word of a name and reduces the rest to initials.
func MaskName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	out := fields[0]
	for _, f := range fields[1:] {
		out += " " + string([]rune(f)[:1]) + "."
	}
	return out
}

// GetEventStats builds the per-event admin report. The aggregate query is
// cached under a short TTL so dashboard refreshes do not hammer Postgres.
func (s *eventService) GetEventStats(ctx context.Context, eventID int64) (*entity.EventStats, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetEventStats(eventID); err == nil {
			return cached, nil
		}
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	orderStats, err := s.orderRepo.GetEventOrderStats(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := &entity.EventStats{
		Event:           event.Event,
		OrderStats:      *orderStats,
		UtilizationRate: orderStats.UtilizationRate(event.Capacity),
		AvailableSeats:  orderStats.AvailableSeats(event.Capacity),
		ConversionRate:  orderStats.ConversionRate(),
	}

	if stats.NeedsAttention(time.Now()) {
		logrus.WithField("event_id", eventID).Warnf("event selling poorly: %s", stats)
	}

	if s.cache != nil {
		if err := s.cache.SetEventStats(eventID, stats); err != nil {
			logrus.WithError(err).WithField("event_id", eventID).Warn("failed to cache event stats")
		}
	}
	return stats, nil
}

// GetPopularEvents returns the most viewed events, ranked by the Redis
// popularity counter. Without a cache it falls back to upcoming events.
func (s *eventService) GetPopularEvents(ctx context.Context, count int) ([]*entity.EventWithAvailability, error) {
	if count <= 0 {
		count = 5
	}
	if s.cache == nil {
		return s.eventRepo.GetUpcomingEvents(ctx, count)
	}

	slugs, err := s.cache.GetPopularEvents(count)
	if err != nil || len(slugs) == 0 {
		return s.eventRepo.GetUpcomingEvents(ctx, count)
	}

	events := make([]*entity.EventWithAvailability, 0, len(slugs))
	for _, slug := range slugs {
		event, err := s.eventRepo.GetBySlug(ctx, slug)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// SeedEvents loads the bundled catalog into an empty events table.
func (s *eventService) SeedEvents(ctx context.Context, events []*entity.Event) error {
	count, err := s.eventRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, event := range events {
		if err := s.eventRepo.Create(ctx, event); err != nil {
			return err
		}
	}

	logrus.WithField("events", len(events)).Info("seeded event catalog")
	return nil
}
