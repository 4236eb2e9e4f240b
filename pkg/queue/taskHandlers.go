package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tisport/tisport/internal/entity"
)

// OrderSettler is the slice of the order service the task handler needs.
// Declared here to keep the queue package free of service imports.
type OrderSettler interface {
	GetOrder(ctx context.Context, id int64) (*entity.Order, error)
	ExpireOrder(ctx context.Context, id int64) error
	SweepExpiredOrders(ctx context.Context) error
}

// Notifier delivers user-facing messages (Telegram in production).
type Notifier interface {
	SendMessage(chatID, text string) error
}

// TaskHandler dispatches queue tasks to the order service
type TaskHandler struct {
	orders   OrderSettler
	notifier Notifier
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(orders OrderSettler, notifier Notifier) *TaskHandler {
	return &TaskHandler{
		orders:   orders,
		notifier: notifier,
	}
}

// HandleTask processes one task
func (h *TaskHandler) HandleTask(task *Task) error {
	log.Printf("Handling task %s of type %s (attempt %d/%d)",
		task.ID, task.Type, task.Attempts, task.MaxRetries)

	switch task.Type {
	case TaskTypeExpireOrder:
		return h.handleExpireOrder(task)
	case TaskTypeSendNotification:
		return h.handleSendNotification(task)
	case TaskTypeCleanupExpired:
		return h.handleCleanupExpired(task)
	case TaskTypePaymentReminder:
		return h.handlePaymentReminder(task)
	default:
		return fmt.Errorf("invalid task type: %s", task.Type)
	}
}

// handleExpireOrder closes the payment window of a pending order
func (h *TaskHandler) handleExpireOrder(task *Task) error {
	ctx := context.Background()

	orderID := task.GetInt64("order_id")
	if orderID == 0 {
		return fmt.Errorf("invalid order_id in task data")
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %v", orderID, err)
	}

	// Orders paid or cancelled in the meantime must never expire
	if order.Status != entity.OrderStatusPendingPayment {
		log.Printf("Order %d no longer pending (status: %s), skipping expiry", order.ID, order.Status)
		return nil
	}

	if time.Now().Before(order.ExpiresAt) {
		log.Printf("Order %d not yet due (expires at: %s)",
			order.ID, order.ExpiresAt.Format(time.RFC3339))
		return nil
	}

	if err := h.orders.ExpireOrder(ctx, order.ID); err != nil {
		return fmt.Errorf("failed to expire order %d: %v", order.ID, err)
	}

	log.Printf("Order %d expired", order.ID)

	if chatID := task.GetString("telegram_id"); chatID != "" && h.notifier != nil {
		text := fmt.Sprintf(
			"⏰ Payment window closed\n\nOrder %s was cancelled automatically because no payment arrived in time.\nYou can place a new order if seats are still available.",
			order.Code,
		)
		if err := h.notifier.SendMessage(chatID, text); err != nil {
			log.Printf("Failed to send expiry notification for order %d: %v", order.ID, err)
		}
	}

	return nil
}

// handleSendNotification delivers a message composed by the service
func (h *TaskHandler) handleSendNotification(task *Task) error {
	if h.notifier == nil {
		return nil
	}

	chatID := task.GetString("telegram_id")
	text := task.GetString("text")
	if chatID == "" || text == "" {
		return fmt.Errorf("invalid notification task: telegram_id and text are required")
	}

	return h.notifier.SendMessage(chatID, text)
}

// handleCleanupExpired runs a full sweep over past-due pending orders
func (h *TaskHandler) handleCleanupExpired(task *Task) error {
	return h.orders.SweepExpiredOrders(context.Background())
}

// handlePaymentReminder nudges a user whose payment window is closing
func (h *TaskHandler) handlePaymentReminder(task *Task) error {
	ctx := context.Background()

	orderID := task.GetInt64("order_id")
	if orderID == 0 {
		return fmt.Errorf("invalid order_id in task data")
	}

	order, err := h.orders.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to load order %d: %v", orderID, err)
	}

	// Reminder is pointless once the order settled
	if order.Status != entity.OrderStatusPendingPayment {
		return nil
	}

	chatID := task.GetString("telegram_id")
	if chatID == "" || h.notifier == nil {
		return nil
	}

	text := fmt.Sprintf(
		"⏳ Payment reminder\n\nOrder %s is waiting for payment until %s.\nComplete the transfer to secure your slot.",
		order.Code,
		order.ExpiresAt.Format("02.01.2006 15:04"),
	)
	if err := h.notifier.SendMessage(chatID, text); err != nil {
		log.Printf("Failed to send payment reminder for order %d: %v", order.ID, err)
	}

	return nil
}
