package repository

import (
	"context"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id int64) (*entity.EventWithAvailability, error)
	GetBySlug(ctx context.Context, slug string) (*entity.EventWithAvailability, error)
	GetAll(ctx context.Context) ([]*entity.EventWithAvailability, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)

	GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.EventWithAvailability, error)
	SearchByTitle(ctx context.Context, title string) ([]*entity.EventWithAvailability, error)
}

type OrderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetByCode(ctx context.Context, code string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	Update(ctx context.Context, order *entity.Order) error

	// Query operations
	GetByEventID(ctx context.Context, eventID int64) ([]*entity.Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]*entity.Order, error)
	GetByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)
	GetAll(ctx context.Context) ([]*entity.Order, error)
	GetRecent(ctx context.Context, limit int) ([]*entity.Order, error)

	// Expiration operations
	GetExpiredOrders(ctx context.Context, before time.Time) ([]*entity.OrderExpiration, error)

	// Participants of paid orders, for the public masked list
	GetPaidParticipants(ctx context.Context, eventID int64) ([]string, error)

	// Statistical operations
	Count(ctx context.Context) (int64, error)
	GetEventOrderStats(ctx context.Context, eventID int64) (*entity.EventOrderStats, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetTelegramID(ctx context.Context, userID int64, telegramID string) error
	MarkOnboarded(ctx context.Context, userID int64, profileJSON []byte) error
	GetAll(ctx context.Context) ([]*entity.User, error)
	Count(ctx context.Context) (int64, error)
}

type PointRepository interface {
	Append(ctx context.Context, entry *entity.PointEntry) error
	GetByUserID(ctx context.Context, userID int64) ([]*entity.PointEntry, error)
	Balance(ctx context.Context, userID int64) (int64, error)
	TotalIssued(ctx context.Context) (int64, error)
}
