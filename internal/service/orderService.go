package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	repository "github.com/tisport/tisport/internal/database/postgres"
	"github.com/tisport/tisport/internal/entity"
	"github.com/tisport/tisport/internal/pricing"
	"github.com/tisport/tisport/pkg/countdown"
	"github.com/tisport/tisport/pkg/telegram"
)

type orderService struct {
	orderRepo      repository.OrderRepository
	eventRepo      repository.EventRepository
	userRepo       repository.UserRepository
	pointRepo      repository.PointRepository
	vouchers       VoucherService
	paymentMethods []entity.PaymentMethod
	queue          TaskPublisher
	telegramBot    *telegram.Bot
	paymentWindow  time.Duration
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	pointRepo repository.PointRepository,
	vouchers VoucherService,
	paymentMethods []entity.PaymentMethod,
	queue TaskPublisher,
	telegramBot *telegram.Bot,
	paymentWindow time.Duration,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		pointRepo:      pointRepo,
		vouchers:       vouchers,
		paymentMethods: paymentMethods,
		queue:          queue,
		telegramBot:    telegramBot,
		paymentWindow:  paymentWindow,
	}
}

// QuoteCheckout previews the checkout breakdown for an event without
// creating an order. An unknown voucher code fails the whole quote.
func (s *orderService) QuoteCheckout(ctx context.Context, req *QuoteRequest) (*pricing.Quote, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	var voucher *entity.Voucher
	if req.VoucherCode != "" {
		voucher, err = s.vouchers.Resolve(req.VoucherCode)
		if err != nil {
			return nil, err
		}
	}

	unitPrice := event.PriceIDR
	if event.IsMembership && event.Membership != nil {
		unitPrice = event.Membership.PriceIDR
	}

	quote := pricing.Evaluate(unitPrice, req.Quantity, req.DonationIDR, voucher)
	return &quote, nil
}

// CreateOrder books seats and opens the payment window. The breakdown is
// computed and frozen server-side; clients never supply amounts.
func (s *orderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*entity.Order, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !event.IsBookable(now) {
		if event.StartsAt.Before(now) {
			return nil, entity.ErrEventDatePast
		}
		return nil, entity.ErrEventNotBookable
	}

	quantity := pricing.ClampQuantity(req.Quantity)
	if event.AvailableSeats < quantity {
		return nil, entity.ErrNotEnoughSeats
	}

	if len(req.Participants) == 0 {
		return nil, fmt.Errorf("%w: at least one participant name is required", entity.ErrInvalidInput)
	}
	if len(req.Participants) != quantity {
		return nil, fmt.Errorf("%w: expected %d participant names, got %d",
			entity.ErrInvalidInput, quantity, len(req.Participants))
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	method, err := s.GetPaymentMethod(req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	var voucher *entity.Voucher
	if req.VoucherCode != "" {
		voucher, err = s.vouchers.Resolve(req.VoucherCode)
		if err != nil {
			return nil, err
		}
	}

	unitPrice := event.PriceIDR
	if event.IsMembership && event.Membership != nil {
		unitPrice = event.Membership.PriceIDR
	}

	quote := pricing.Evaluate(unitPrice, quantity, req.DonationIDR, voucher)

	order := &entity.Order{
		Code:            uuid.New().String(),
		EventID:         event.ID,
		UserID:          user.ID,
		Quantity:        quote.Quantity,
		Participants:    req.Participants,
		TicketIDR:       quote.TicketSubtotal,
		DonationIDR:     quote.DonationIDR,
		DiscountIDR:     quote.DiscountIDR,
		VoucherCode:     quote.VoucherCode,
		VoucherTitle:    quote.VoucherTitle,
		FeeIDR:          quote.FeeIDR,
		TotalIDR:        quote.TotalIDR,
		Points:          quote.Points,
		Status:          entity.OrderStatusPendingPayment,
		PaymentMethodID: method.ID,
		ExpiresAt:       now.Add(s.paymentWindow),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"order_code": order.Code,
		"event_id":   order.EventID,
		"user_id":    order.UserID,
		"quantity":   order.Quantity,
		"total_idr":  order.TotalIDR,
		"expires_at": order.ExpiresAt,
	}).Info("order created")

	if s.queue != nil {
		if err := s.scheduleOrderTasks(ctx, order, user.TelegramID); err != nil {
			logrus.WithError(err).Warn("failed to schedule order tasks")
		}
	} else {
		// Without a queue the payment window is enforced in process.
		s.startExpiryCountdown(order.ID)
	}

	if s.telegramBot != nil && user.TelegramID != "" {
		go s.sendOrderCreatedNotification(order, &event.Event, user)
	}

	return order, nil
}

// scheduleOrderTasks enqueues the delayed expiry task and a payment reminder
// five minutes before the window closes. The user's telegram id travels in
// the task data so the handler can notify without a user lookup.
func (s *orderService) scheduleOrderTasks(ctx context.Context, order *entity.Order, telegramID string) error {
	expireTask := &Task{
		ID:   fmt.Sprintf("expire_order_%d_%d", order.ID, time.Now().Unix()),
		Type: TaskTypeExpireOrder,
		Data: map[string]interface{}{
			"order_id":    order.ID,
			"order_code":  order.Code,
			"telegram_id": telegramID,
			"expires_at":  order.ExpiresAt.Format(time.RFC3339),
		},
		ExecuteAt:  order.ExpiresAt,
		MaxRetries: 3,
	}
	if err := s.queue.Publish(ctx, expireTask); err != nil {
		return fmt.Errorf("failed to schedule expiry task: %w", err)
	}

	reminderTime := order.ExpiresAt.Add(-5 * time.Minute)
	if reminderTime.After(time.Now()) {
		reminderTask := &Task{
			ID:   fmt.Sprintf("payment_reminder_%d_%d", order.ID, time.Now().Unix()),
			Type: TaskTypePaymentReminder,
			Data: map[string]interface{}{
				"order_id":    order.ID,
				"order_code":  order.Code,
				"telegram_id": telegramID,
			},
			ExecuteAt:  reminderTime,
			MaxRetries: 2,
		}
		if err := s.queue.Publish(ctx, reminderTask); err != nil {
			return fmt.Errorf("failed to schedule reminder task: %w", err)
		}
	}

	return nil
}

func (s *orderService) startExpiryCountdown(orderID int64) {
	c := countdown.New(int(s.paymentWindow/time.Second), time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.ExpireOrder(ctx, orderID); err != nil {
			logrus.WithError(err).WithField("order_id", orderID).Warn("in-process expiry failed")
		}
	})
	go c.Start(context.Background())
}

func (s *orderService) sendOrderCreatedNotification(order *entity.Order, event *entity.Event, user *entity.User) {
	message := fmt.Sprintf(
		"Pesanan dibuat!\n\n"+
			"Event: %s\n"+
			"Jadwal: %s\n"+
			"Jumlah tiket: %d\n"+
			"Total: Rp%d\n"+
			"Kode pesanan: %s\n\n"+
			"Selesaikan pembayaran sebelum %s.",
		event.Title,
		event.StartsAt.Format("02.01.2006 15:04"),
		order.Quantity,
		order.TotalIDR,
		order.Code,
		order.ExpiresAt.Format("15:04"),
	)

	if err := s.telegramBot.SendMessage(user.TelegramID, message); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to send telegram notification")
	}
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) GetOrderByCode(ctx context.Context, code string) (*entity.Order, error) {
	return s.orderRepo.GetByCode(ctx, code)
}

// GetOrderDetails assembles the order status page. A pending order past its
// deadline is reported expired even if the background machinery has not
// flipped it yet.
func (s *orderService) GetOrderDetails(ctx context.Context, code string) (*OrderDetails, error) {
	order, err := s.orderRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, order.EventID)
	if err != nil {
		return nil, err
	}

	details := &OrderDetails{
		Order: order,
		Event: event,
	}

	if method, err := s.GetPaymentMethod(order.PaymentMethodID); err == nil {
		details.PaymentMethod = method
	}

	now := time.Now()
	switch {
	case order.Status == entity.OrderStatusExpired:
		details.IsExpired = true
	case order.PastDue(now):
		details.IsExpired = true
	case order.Status == entity.OrderStatusPendingPayment:
		details.TimeLeft = order.ExpiresAt.Sub(now)
	}

	return details, nil
}

func (s *orderService) GetUserOrders(ctx context.Context, userID int64) ([]*entity.Order, error) {
	return s.orderRepo.GetByUserID(ctx, userID)
}

func (s *orderService) GetEventOrders(ctx context.Context, eventID int64) ([]*entity.Order, error) {
	return s.orderRepo.GetByEventID(ctx, eventID)
}

// AttachProof records the uploaded transfer receipt on a pending order.
func (s *orderService) AttachProof(ctx context.Context, orderID int64, proofURL string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.IsTerminal() {
		return entity.ErrOrderTerminal
	}
	if order.PastDue(time.Now()) {
		return entity.ErrOrderExpired
	}
	if proofURL == "" {
		return fmt.Errorf("%w: proof url is required", entity.ErrInvalidInput)
	}

	order.ProofURL = proofURL
	return s.orderRepo.Update(ctx, order)
}

// SettleOrder closes the payment window by the payer's declaration. With a
// proof attached the order is paid and points are awarded; without one it
// goes to manual review.
func (s *orderService) SettleOrder(ctx context.Context, orderID int64) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.IsTerminal() {
		return nil, entity.ErrOrderTerminal
	}
	if order.PastDue(time.Now()) {
		if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusExpired); err != nil {
			return nil, err
		}
		return nil, entity.ErrOrderExpired
	}

	next := entity.OrderStatusInReview
	if order.ProofURL != "" {
		next = entity.OrderStatusPaid
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, next); err != nil {
		return nil, err
	}
	order.Status = next

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   next,
	}).Info("order settled")

	if next == entity.OrderStatusPaid {
		s.awardOrderPoints(ctx, order)
	}

	return order, nil
}

// ApproveOrder confirms an in-review order after an operator checked the
// payment manually.
func (s *orderService) ApproveOrder(ctx context.Context, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != entity.OrderStatusInReview {
		return entity.ErrInvalidOrderState
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusPaid); err != nil {
		return err
	}
	order.Status = entity.OrderStatusPaid

	logrus.WithField("order_id", order.ID).Info("order approved")

	s.awardOrderPoints(ctx, order)
	s.notifyOrderStatusChange(ctx, order, "Pembayaran dikonfirmasi. Sampai jumpa di lapangan!")
	return nil
}

func (s *orderService) CancelOrder(ctx context.Context, orderID int64, reason string) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.IsTerminal() {
		return entity.ErrOrderTerminal
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusCancelled); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"reason":   reason,
	}).Info("order cancelled")
	return nil
}

// ExpireOrder closes a pending order whose payment window has passed. Seats
// return to the pool because expired orders no longer count against capacity.
func (s *orderService) ExpireOrder(ctx context.Context, orderID int64) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.Status != entity.OrderStatusPendingPayment {
		// Paid or cancelled in the meantime, nothing to do.
		return nil
	}
	if !order.PastDue(time.Now()) {
		return fmt.Errorf("order %d is not past due yet", orderID)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, entity.OrderStatusExpired); err != nil {
		return err
	}
	order.Status = entity.OrderStatusExpired

	logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"order_code": order.Code,
	}).Info("order expired")

	s.notifyOrderStatusChange(ctx, order, "Waktu pembayaran habis dan pesanan dibatalkan. Kursi dikembalikan.")
	return nil
}

// SweepExpiredOrders expires every pending order past its deadline. Runs
// periodically as a safety net behind the per-order delayed tasks.
func (s *orderService) SweepExpiredOrders(ctx context.Context) error {
	expirations, err := s.orderRepo.GetExpiredOrders(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to list expired orders: %w", err)
	}

	for _, exp := range expirations {
		if err := s.orderRepo.UpdateStatus(ctx, exp.OrderID, entity.OrderStatusExpired); err != nil {
			logrus.WithError(err).WithField("order_id", exp.OrderID).Error("failed to expire order")
			continue
		}

		logrus.WithFields(logrus.Fields{
			"order_id":   exp.OrderID,
			"order_code": exp.OrderCode,
		}).Info("order expired by sweep")

		if s.telegramBot != nil && exp.TelegramID != "" {
			message := fmt.Sprintf(
				"Waktu pembayaran untuk %s habis. Pesanan %s dibatalkan dan kursi dikembalikan.",
				exp.EventTitle, exp.OrderCode)
			if err := s.telegramBot.SendMessage(exp.TelegramID, message); err != nil {
				logrus.WithError(err).WithField("order_id", exp.OrderID).Warn("failed to send expiry notification")
			}
		}
	}

	return nil
}

func (s *orderService) ListPaymentMethods() []entity.PaymentMethod {
	active := make([]entity.PaymentMethod, 0, len(s.paymentMethods))
	for _, m := range s.paymentMethods {
		if m.IsActive {
			active = append(active, m)
		}
	}
	return active
}

func (s *orderService) GetPaymentMethod(id string) (*entity.PaymentMethod, error) {
	for _, m := range s.paymentMethods {
		if m.ID == id {
			if !m.IsActive {
				return nil, entity.ErrPaymentMethodInactive
			}
			method := m
			return &method, nil
		}
	}
	return nil, entity.ErrPaymentMethodNotFound
}

func (s *orderService) GetOrdersByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	return s.orderRepo.GetByStatus(ctx, status)
}

func (s *orderService) GetAllOrders(ctx context.Context) ([]*entity.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

func (s *orderService) GetRecentOrders(ctx context.Context, limit int) ([]*entity.Order, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.orderRepo.GetRecent(ctx, limit)
}

func (s *orderService) GetSystemStats(ctx context.Context) (*entity.SystemStats, error) {
	stats := &entity.SystemStats{}

	var err error
	if stats.TotalEvents, err = s.eventRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orderRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PointsIssued, err = s.pointRepo.TotalIssued(ctx); err != nil {
		return nil, err
	}

	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var capacityTotal, bookedTotal int
	for _, ev := range events {
		if ev.IsBookable(time.Now()) {
			stats.ActiveEvents++
		}
		capacityTotal += ev.Capacity
		bookedTotal += ev.BookedSeats
	}
	if capacityTotal > 0 {
		stats.Utilization = float64(bookedTotal) / float64(capacityTotal)
	}

	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	perEvent := make(map[int64]*entity.EventOrderCount)
	for _, order := range orders {
		if order.Status == entity.OrderStatusPaid {
			stats.RevenueIDR += order.TotalIDR
		}
		age := now.Sub(order.CreatedAt)
		if age <= 24*time.Hour {
			stats.DailyOrders++
		}
		if age <= 7*24*time.Hour {
			stats.WeeklyOrders++
		}
		if age <= 30*24*time.Hour {
			stats.MonthlyOrders++
		}

		count, ok := perEvent[order.EventID]
		if !ok {
			count = &entity.EventOrderCount{EventID: order.EventID}
			perEvent[order.EventID] = count
		}
		count.Orders++
		count.Seats += order.Quantity
	}

	for _, ev := range events {
		if count, ok := perEvent[ev.ID]; ok {
			count.EventTitle = ev.Title
			count.EventDate = ev.StartsAt
		}
	}

	top := make([]*entity.EventOrderCount, 0, len(perEvent))
	for _, count := range perEvent {
		top = append(top, count)
	}
	sort.Slice(top, func(i, j int) bool { return top[i].Orders > top[j].Orders })
	if len(top) > 5 {
		top = top[:5]
	}
	stats.TopEvents = top

	return stats, nil
}

// awardOrderPoints appends the loyalty points frozen on the order to the
// buyer's ledger. Failures are logged, not propagated; the payment already
// happened.
func (s *orderService) awardOrderPoints(ctx context.Context, order *entity.Order) {
	if order.Points <= 0 {
		return
	}

	orderID := order.ID
	entry := &entity.PointEntry{
		UserID:  order.UserID,
		OrderID: &orderID,
		Points:  order.Points,
		Reason:  entity.PointReasonTicketPurchase,
		Note:    fmt.Sprintf("order %s", order.Code),
	}
	if err := s.pointRepo.Append(ctx, entry); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("failed to award points")
	}
}

func (s *orderService) notifyOrderStatusChange(ctx context.Context, order *entity.Order, text string) {
	if s.telegramBot == nil {
		return
	}

	user, err := s.userRepo.GetByID(ctx, order.UserID)
	if err != nil || user.TelegramID == "" {
		return
	}

	go func() {
		if err := s.telegramBot.SendMessage(user.TelegramID, text); err != nil {
			logrus.WithError(err).WithField("order_id", order.ID).Warn("failed to send telegram notification")
		}
	}()
}
