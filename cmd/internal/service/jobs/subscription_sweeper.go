package jobs

import (
	"context"
	"omigec/cmd/internal/utils"
	"time"

	"github.com/labstack/gommon/log"
)

type SubscriptionRepository interface {
	DeactivateExpired(now int64) (int64, error)
}

// SubscriptionSweeper turns off subscriptions whose expiry has passed.
// Reads already ignore them, this only keeps is_active truthful.
type SubscriptionSweeper struct {
	subRepo  SubscriptionRepository
	interval time.Duration
	now      func() int64
}

func NewSubscriptionSweeper(repo SubscriptionRepository, interval time.Duration) *SubscriptionSweeper {
	return &SubscriptionSweeper{subRepo: repo, interval: interval, now: utils.NowUTC}
}

func (s *SubscriptionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Info("Subscription sweeper started")
	s.sweep()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping subscription sweeper...")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SubscriptionSweeper) sweep() {
	n, err := s.subRepo.DeactivateExpired(s.now())
	if err != nil {
		log.Errorf("Sweeper: failed to deactivate expired subscriptions: %v", err)
		return
	}

	if n > 0 {
		log.Infof("Sweeper: deactivated %d expired subscriptions", n)
	}
}
