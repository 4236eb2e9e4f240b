package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tisport/tisport/internal/service"
)

// OrderExpiryWorker periodically sweeps pending orders past their payment
// deadline. It backs up the per-order delayed queue tasks, so a missed task
// never leaves seats stuck.
type OrderExpiryWorker struct {
	orderService service.OrderService
	interval     time.Duration
}

func NewOrderExpiryWorker(orderService service.OrderService, interval time.Duration) *OrderExpiryWorker {
	return &OrderExpiryWorker{
		orderService: orderService,
		interval:     interval,
	}
}

func (w *OrderExpiryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("order expiry worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("order expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *OrderExpiryWorker) sweep(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	if err := w.orderService.SweepExpiredOrders(ctx); err != nil {
		logrus.Errorf("expired order sweep failed: %v", err)
	}
}
