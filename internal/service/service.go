package service

import (
	"context"
	"time"

	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/onboarding"
	"github.com/tisport/tisport/internal/pricing"
)

type EventService interface {
	CreateEvent(ctx context.Context, req *CreateEventRequest) (*entity.Event, error)
	GetEvent(ctx context.Context, id int64) (*entity.EventWithAvailability, error)
	GetEventBySlug(ctx context.Context, slug string) (*entity.EventWithAvailability, error)
	GetAllEvents(ctx context.Context) ([]*entity.EventWithAvailability, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.EventWithAvailability, error)
	SearchEventsByTitle(ctx context.Context, title string) ([]*entity.EventWithAvailability, error)
	UpdateEvent(ctx context.Context, id int64, req *UpdateEventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	GetEventParticipants(ctx context.Context, eventID int64) ([]string, error)
	GetEventStats(ctx context.Context, eventID int64) (*entity.EventStats, error)
	GetPopularEvents(ctx context.Context, count int) ([]*entity.EventWithAvailability, error)

	SeedEvents(ctx context.Context, events []*entity.Event) error
}

type VoucherService interface {
	ListVouchers() []entity.Voucher
	Resolve(code string) (*entity.Voucher, error)
}

type OrderService interface {
	// Checkout
	QuoteCheckout(ctx context.Context, req *QuoteRequest) (*pricing.Quote, error)
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*entity.Order, error)

	// Lookup
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	GetOrderByCode(ctx context.Context, code string) (*entity.Order, error)
	GetOrderDetails(ctx context.Context, code string) (*OrderDetails, error)
	GetUserOrders(ctx context.Context, userID int64) ([]*entity.Order, error)
	GetEventOrders(ctx context.Context, eventID int64) ([]*entity.Order, error)

	// Settlement
	AttachProof(ctx context.Context, orderID int64, proofURL string) error
	SettleOrder(ctx context.Context, orderID int64) (*entity.Order, error)
	ApproveOrder(ctx context.Context, orderID int64) error
	CancelOrder(ctx context.Context, orderID int64, reason string) error

	// Expiration
	ExpireOrder(ctx context.Context, orderID int64) error
	SweepExpiredOrders(ctx context.Context) error

	// Payment methods catalog
	ListPaymentMethods() []entity.PaymentMethod
	GetPaymentMethod(id string) (*entity.PaymentMethod, error)

	// Administrative
	GetOrdersByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error)
	GetAllOrders(ctx context.Context) ([]*entity.Order, error)
	GetRecentOrders(ctx context.Context, limit int) ([]*entity.Order, error)
	GetSystemStats(ctx context.Context) (*entity.SystemStats, error)
}

type UserService interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error)
	LinkTelegram(ctx context.Context, userID int64, telegramID string) error

	CompleteOnboarding(ctx context.Context, userID int64, profile *onboarding.Profile) (*onboarding.Breakdown, error)
	GetRewardBalance(ctx context.Context, userID int64) (int64, error)
	GetRewardHistory(ctx context.Context, userID int64) ([]*entity.PointEntry, error)
	AdjustPoints(ctx context.Context, userID int64, points int64, note string) (*entity.PointEntry, error)

	GetAllUsers(ctx context.Context) ([]*entity.User, error)
}

type CreateEventRequest struct {
	Slug         string             `json:"slug" binding:"required"`
	Title        string             `json:"title" binding:"required"`
	Description  string             `json:"description"`
	Venue        string             `json:"venue" binding:"required"`
	VenueAddress string             `json:"venue_address"`
	VenueMapURL  string             `json:"venue_map_url"`
	StartsAt     time.Time          `json:"starts_at" binding:"required"`
	EndsAt       time.Time          `json:"ends_at" binding:"required"`
	Capacity     int                `json:"capacity" binding:"required,min=1"`
	PriceIDR     int64              `json:"price_idr" binding:"min=0"`
	Category     string             `json:"category"`
	IsMembership bool               `json:"is_membership"`
	Membership   *entity.Membership `json:"membership,omitempty"`
}

type UpdateEventRequest struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Venue        *string             `json:"venue,omitempty"`
	VenueAddress *string             `json:"venue_address,omitempty"`
	VenueMapURL  *string             `json:"venue_map_url,omitempty"`
	StartsAt     *time.Time          `json:"starts_at,omitempty"`
	EndsAt       *time.Time          `json:"ends_at,omitempty"`
	Capacity     *int                `json:"capacity,omitempty"`
	PriceIDR     *int64              `json:"price_idr,omitempty"`
	Status       *entity.EventStatus `json:"status,omitempty"`
	Category     *string             `json:"category,omitempty"`
}

// QuoteRequest previews the checkout breakdown without creating an order.
type QuoteRequest struct {
	EventID     int64  `json:"event_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	DonationIDR int64  `json:"donation_idr" binding:"min=0"`
	VoucherCode string `json:"voucher_code"`
}

type CreateOrderRequest struct {
	EventID         int64    `json:"event_id" binding:"required"`
	UserID          int64    `json:"user_id" binding:"required"`
	Quantity        int      `json:"quantity" binding:"required"`
	Participants    []string `json:"participants" binding:"required,min=1"`
	DonationIDR     int64    `json:"donation_idr" binding:"min=0"`
	VoucherCode     string   `json:"voucher_code"`
	PaymentMethodID string   `json:"payment_method_id" binding:"required"`
}

type RegisterUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Username *string `json:"username,omitempty"`
	Nickname *string `json:"nickname,omitempty"`
}

// OrderDetails is the order status page payload: the order joined with its
// event and the remaining payment window.
type OrderDetails struct {
	Order         *entity.Order                 `json:"order"`
	Event         *entity.EventWithAvailability `json:"event"`
	PaymentMethod *entity.PaymentMethod         `json:"payment_method,omitempty"`
	TimeLeft      time.Duration                 `json:"time_left,omitempty"`
	IsExpired     bool                          `json:"is_expired"`
}

// TaskPublisher publishes background tasks without importing the queue
// implementation.
type TaskPublisher interface {
	Publish(ctx context.Context, task *Task) error
}

type Task struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	ExecuteAt  time.Time              `json:"execute_at"`
	MaxRetries int                    `json:"max_retries"`
	Attempts   int                    `json:"attempts"`
}

const (
	TaskTypeExpireOrder      = "expire_order"
	TaskTypeSendNotification = "send_notification"
	TaskTypeCleanupExpired   = "cleanup_expired"
	TaskTypePaymentReminder  = "payment_reminder"
)
