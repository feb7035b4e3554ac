package jobs

import (
	"context"
	"omigec/cmd/internal/utils"
	"time"

	"github.com/labstack/gommon/log"
)

type JobRepository interface {
	CloseExpired(today int64) (int64, error)
}

// OfferSweeper closes offers whose deadline day is over. An offer stays
// open for the whole deadline day.
type OfferSweeper struct {
	jobRepo  JobRepository
	interval time.Duration
	now      func() int64
}

func NewOfferSweeper(repo JobRepository, interval time.Duration) *OfferSweeper {
	return &OfferSweeper{jobRepo: repo, interval: interval, now: utils.NowUTC}
}

func (o *OfferSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	log.Info("Offer sweeper started")
	o.sweep()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping offer sweeper...")
			return
		case <-ticker.C:
			o.sweep()
		}
	}
}

func (o *OfferSweeper) sweep() {
	n, err := o.jobRepo.CloseExpired(utils.StartOfDay(o.now()))
	if err != nil {
		log.Errorf("Sweeper: failed to close expired offers: %v", err)
		return
	}

	if n > 0 {
		log.Infof("Sweeper: closed %d expired offers", n)
	}
}
