package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	e.id, e.slug, e.title, e.description, e.venue, e.venue_address, e.venue_map_url,
	e.starts_at, e.ends_at, e.capacity, e.price_idr, e.status, e.category,
	e.is_membership, e.membership_json, e.created_at, e.updated_at
`

// bookedSeatsExpr counts seats held by orders that consume capacity. Expired
// and cancelled orders release their seats.
const bookedSeatsExpr = `
	COALESCE((
		SELECT SUM(o.quantity) FROM orders o
		WHERE o.event_id = e.id
		  AND o.status IN ('pending_payment', 'in_review', 'paid')
	), 0)
`

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	membershipJSON, err := marshalMembership(event.Membership)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (
			slug, title, description, venue, venue_address, venue_map_url,
			starts_at, ends_at, capacity, price_idr, status, category,
			is_membership, membership_json, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		event.Slug,
		event.Title,
		event.Description,
		event.Venue,
		event.VenueAddress,
		event.VenueMapURL,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.PriceIDR,
		event.Status,
		event.Category,
		event.IsMembership,
		membershipJSON,
		now,
		now,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %v", err)
	}

	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entity.EventWithAvailability, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS booked_seats
		FROM events e
		WHERE e.id = $1
	`, eventColumns, bookedSeatsExpr)

	return r.scanEventWithAvailability(r.db.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*entity.EventWithAvailability, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS booked_seats
		FROM events e
		WHERE e.slug = $1
	`, eventColumns, bookedSeatsExpr)

	return r.scanEventWithAvailability(r.db.QueryRowContext(ctx, query, slug))
}

func (r *eventRepository) GetAll(ctx context.Context) ([]*entity.EventWithAvailability, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS booked_seats
		FROM events e
		ORDER BY e.starts_at ASC
	`, eventColumns, bookedSeatsExpr)

	return r.queryEvents(ctx, query)
}

func (r *eventRepository) GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.EventWithAvailability, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS booked_seats
		FROM events e
		WHERE e.starts_at > NOW() AND e.status = 'OPEN'
		ORDER BY e.starts_at ASC
		LIMIT $1
	`, eventColumns, bookedSeatsExpr)

	return r.queryEvents(ctx, query, limit)
}

func (r *eventRepository) SearchByTitle(ctx context.Context, title string) ([]*entity.EventWithAvailability, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s AS booked_seats
		FROM events e
		WHERE e.title ILIKE '%%' || $1 || '%%'
		ORDER BY e.starts_at ASC
	`, eventColumns, bookedSeatsExpr)

	return r.queryEvents(ctx, query, title)
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	membershipJSON, err := marshalMembership(event.Membership)
	if err != nil {
		return err
	}

	query := `
		UPDATE events SET
			slug = $1, title = $2, description = $3, venue = $4, venue_address = $5,
			venue_map_url = $6, starts_at = $7, ends_at = $8, capacity = $9,
			price_idr = $10, status = $11, category = $12,
			is_membership = $13, membership_json = $14, updated_at = $15
		WHERE id = $16
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Slug,
		event.Title,
		event.Description,
		event.Venue,
		event.VenueAddress,
		event.VenueMapURL,
		event.StartsAt,
		event.EndsAt,
		event.Capacity,
		event.PriceIDR,
		event.Status,
		event.Category,
		event.IsMembership,
		membershipJSON,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %v", err)
	}
	if rows == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %v", err)
	}
	return count, nil
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*entity.EventWithAvailability, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %v", err)
	}
	defer rows.Close()

	var events []*entity.EventWithAvailability
	for rows.Next() {
		ev, err := r.scanEventWithAvailability(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *eventRepository) scanEventWithAvailability(row rowScanner) (*entity.EventWithAvailability, error) {
	var ev entity.EventWithAvailability
	var membershipJSON sql.NullString

	err := row.Scan(
		&ev.ID,
		&ev.Slug,
		&ev.Title,
		&ev.Description,
		&ev.Venue,
		&ev.VenueAddress,
		&ev.VenueMapURL,
		&ev.StartsAt,
		&ev.EndsAt,
		&ev.Capacity,
		&ev.PriceIDR,
		&ev.Status,
		&ev.Category,
		&ev.IsMembership,
		&membershipJSON,
		&ev.CreatedAt,
		&ev.UpdatedAt,
		&ev.BookedSeats,
	)
	if err == sql.ErrNoRows {
		return nil, entity.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %v", err)
	}

	if membershipJSON.Valid && membershipJSON.String != "" {
		var m entity.Membership
		if err := json.Unmarshal([]byte(membershipJSON.String), &m); err != nil {
			return nil, fmt.Errorf("failed to parse membership details: %v", err)
		}
		ev.Membership = &m
	}

	ev.AvailableSeats = ev.Capacity - ev.BookedSeats
	return &ev, nil
}

func marshalMembership(m *entity.Membership) (interface{}, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal membership details: %v", err)
	}
	return string(data), nil
}
