package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

// In-memory repository fakes shared by the service tests.

var errCacheMiss = errors.New("cache miss")

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID int64
	events map[int64]*entity.EventWithAvailability
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[int64]*entity.EventWithAvailability{}}
}

func (r *fakeEventRepo) add(ev *entity.EventWithAvailability) *entity.EventWithAvailability {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ev.ID = r.nextID
	if ev.AvailableSeats == 0 && ev.BookedSeats == 0 {
		ev.AvailableSeats = ev.Capacity
	}
	r.events[ev.ID] = ev
	return ev
}

func (r *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	r.add(&entity.EventWithAvailability{Event: *event})
	event.ID = r.nextID
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id int64) (*entity.EventWithAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	copied := *ev
	return &copied, nil
}

func (r *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*entity.EventWithAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Slug == slug {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, entity.ErrEventNotFound
}

func (r *fakeEventRepo) GetAll(ctx context.Context) ([]*entity.EventWithAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.EventWithAvailability
	for _, ev := range r.events {
		copied := *ev
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[event.ID]
	if !ok {
		return entity.ErrEventNotFound
	}
	ev.Event = *event
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return entity.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.events)), nil
}

func (r *fakeEventRepo) GetUpcomingEvents(ctx context.Context, limit int) ([]*entity.EventWithAvailability, error) {
	all, _ := r.GetAll(ctx)
	var out []*entity.EventWithAvailability
	for _, ev := range all {
		if ev.StartsAt.After(time.Now()) && ev.Status == entity.EventStatusOpen {
			out = append(out, ev)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeEventRepo) SearchByTitle(ctx context.Context, title string) ([]*entity.EventWithAvailability, error) {
	return r.GetAll(ctx)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*entity.Order{}}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	order.ID = r.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetByCode(ctx context.Context, code string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.Code == code {
			copied := *order
			return &copied, nil
		}
	}
	return nil, entity.ErrOrderNotFound
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return entity.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return entity.ErrOrderNotFound
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByEventID(ctx context.Context, eventID int64) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if order.EventID == eventID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByUserID(ctx context.Context, userID int64) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		if order.Status == status {
			copied := *order
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetAll(ctx context.Context) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, order := range r.orders {
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeOrderRepo) GetRecent(ctx context.Context, limit int) ([]*entity.Order, error) {
	all, _ := r.GetAll(ctx)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeOrderRepo) GetExpiredOrders(ctx context.Context, before time.Time) ([]*entity.OrderExpiration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.OrderExpiration
	for _, order := range r.orders {
		if order.Status == entity.OrderStatusPendingPayment && order.ExpiresAt.Before(before) {
			out = append(out, &entity.OrderExpiration{
				OrderID:   order.ID,
				OrderCode: order.Code,
				ExpiresAt: order.ExpiresAt,
				UserID:    order.UserID,
				EventID:   order.EventID,
				Quantity:  order.Quantity,
			})
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetPaidParticipants(ctx context.Context, eventID int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, order := range r.orders {
		if order.EventID == eventID && order.Status == entity.OrderStatusPaid {
			out = append(out, order.Participants...)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) GetEventOrderStats(ctx context.Context, eventID int64) (*entity.EventOrderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &entity.EventOrderStats{}
	for _, order := range r.orders {
		if order.EventID != eventID {
			continue
		}
		stats.TotalOrders++
		switch order.Status {
		case entity.OrderStatusPendingPayment:
			stats.PendingSeats += order.Quantity
		case entity.OrderStatusPaid:
			stats.PaidSeats += order.Quantity
			stats.RevenueIDR += order.TotalIDR
		case entity.OrderStatusInReview:
			stats.InReviewSeats += order.Quantity
		case entity.OrderStatusCancelled:
			stats.CancelledSeats += order.Quantity
		case entity.OrderStatusExpired:
			stats.ExpiredSeats += order.Quantity
		}
	}
	return stats, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entity.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return entity.ErrUserAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return entity.ErrUserNotFound
	}
	onboarded := stored.Onboarded
	copied := *user
	copied.Onboarded = onboarded
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) SetTelegramID(ctx context.Context, userID int64, telegramID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}
	user.TelegramID = telegramID
	return nil
}

func (r *fakeUserRepo) MarkOnboarded(ctx context.Context, userID int64, profileJSON []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return entity.ErrUserNotFound
	}
	user.Onboarded = true
	return nil
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, user := range r.users {
		copied := *user
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakePointRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries []*entity.PointEntry
}

func newFakePointRepo() *fakePointRepo {
	return &fakePointRepo{}
}

func (r *fakePointRepo) Append(ctx context.Context, entry *entity.PointEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	entry.CreatedAt = time.Now()
	copied := *entry
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakePointRepo) GetByUserID(ctx context.Context, userID int64) ([]*entity.PointEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PointEntry
	for _, entry := range r.entries {
		if entry.UserID == userID {
			copied := *entry
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakePointRepo) Balance(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var balance int64
	for _, entry := range r.entries {
		if entry.UserID == userID {
			balance += entry.Points
		}
	}
	return balance, nil
}

func (r *fakePointRepo) TotalIssued(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, entry := range r.entries {
		if entry.Points > 0 {
			total += entry.Points
		}
	}
	return total, nil
}

type fakeTaskPublisher struct {
	mu    sync.Mutex
	tasks []*Task
}

func (p *fakeTaskPublisher) Publish(ctx context.Context, task *Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *fakeTaskPublisher) published(taskType string) []*Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*Task
	for _, task := range p.tasks {
		if task.Type == taskType {
			out = append(out, task)
		}
	}
	return out
}

type fakeEventCache struct {
	mu     sync.Mutex
	events map[string]*entity.EventWithAvailability
	views  map[string]int
	stats  map[int64]*entity.EventStats
}

func newFakeEventCache() *fakeEventCache {
	return &fakeEventCache{
		events: make(map[string]*entity.EventWithAvailability),
		views:  make(map[string]int),
		stats:  make(map[int64]*entity.EventStats),
	}
}

func (c *fakeEventCache) SetEvent(slug string, event *entity.EventWithAvailability) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events[slug] = event
	return nil
}

func (c *fakeEventCache) GetEvent(slug string) (*entity.EventWithAvailability, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	event, ok := c.events[slug]
	if !ok {
		return nil, errCacheMiss
	}
	return event, nil
}

func (c *fakeEventCache) DeleteEvent(slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.events, slug)
	return nil
}

func (c *fakeEventCache) IncrementPopularity(slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[slug]++
	return nil
}

func (c *fakeEventCache) GetPopularEvents(count int) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var slugs []string
	for slug := range c.views {
		slugs = append(slugs, slug)
	}
	if len(slugs) > count {
		slugs = slugs[:count]
	}
	return slugs, nil
}

func (c *fakeEventCache) SetEventStats(eventID int64, stats *entity.EventStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats[eventID] = stats
	return nil
}

func (c *fakeEventCache) GetEventStats(eventID int64) (*entity.EventStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stats, ok := c.stats[eventID]
	if !ok {
		return nil, errCacheMiss
	}
	return stats, nil
}
