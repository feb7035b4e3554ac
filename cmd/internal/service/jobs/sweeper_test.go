package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type fakeSubRepo struct {
	calls atomic.Int32
	at    atomic.Int64
	err   error
}

func (f *fakeSubRepo) DeactivateExpired(now int64) (int64, error) {
	f.calls.Add(1)
	f.at.Store(now)
	return 1, f.err
}

type fakeJobRepo struct {
	calls atomic.Int32
	today atomic.Int64
}

func (f *fakeJobRepo) CloseExpired(today int64) (int64, error) {
	f.calls.Add(1)
	f.today.Store(today)
	return 0, nil
}

func TestSubscriptionSweeper_SweepsOnStartAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &fakeSubRepo{}
	s := NewSubscriptionSweeper(repo, time.Hour)
	s.now = func() int64 { return 42 }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(42), repo.at.Load())

	cancel()
	<-done
}

func TestSubscriptionSweeper_ErrorIsNotFatal(t *testing.T) {
	repo := &fakeSubRepo{err: errors.New("db down")}
	s := NewSubscriptionSweeper(repo, time.Hour)

	s.sweep()
	s.sweep()

	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestOfferSweeper_UsesStartOfDay(t *testing.T) {
	defer goleak.VerifyNone(t)

	day := int64(24 * 60 * 60 * 1000)
	repo := &fakeJobRepo{}
	o := NewOfferSweeper(repo, 10*time.Millisecond)
	o.now = func() int64 { return 20*day + 5000 }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		o.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return repo.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 20*day, repo.today.Load())

	cancel()
	<-done
}
