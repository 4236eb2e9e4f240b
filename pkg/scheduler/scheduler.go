package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Sweeper is implemented by the order service.
type Sweeper interface {
	SweepExpiredOrders(ctx context.Context) error
}

// Scheduler periodically sweeps past-due pending orders. It is the
// authoritative backstop behind the delayed expiry tasks: even if every
// queued task is lost, no order outlives its payment window by more than
// one interval.
type Scheduler struct {
	orders   Sweeper
	interval time.Duration
}

func NewScheduler(orders Sweeper, interval time.Duration) *Scheduler {
	return &Scheduler{
		orders:   orders,
		interval: interval,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.orders.SweepExpiredOrders(ctx); err != nil {
				logrus.Errorf("Error sweeping expired orders: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
