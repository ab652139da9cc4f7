// Package salelock serializes bid placement per sale.
package salelock

import (
	"context"
	"fmt"
	"sync"

	"auction-engine/internal/biddingerrors"
)

// Locker grants exclusive access to one sale at a time. Acquire blocks until
// the sale is free or ctx is done, in which case it returns an error matching
// biddingerrors.ErrBusy. The returned release func is safe to call more than once.
type Locker interface {
	Acquire(ctx context.Context, saleID int64) (release func(), err error)
}

type slot struct {
	ch   chan struct{}
	refs int
}

// Local is an in-process Locker. Sales never share a slot, so waiting on one
// sale does not delay another.
type Local struct {
	mu    sync.Mutex
	slots map[int64]*slot
}

// NewLocal creates an empty in-process locker
func NewLocal() *Local {
	return &Local{slots: make(map[int64]*slot)}
}

func (l *Local) Acquire(ctx context.Context, saleID int64) (func(), error) {
	s := l.ref(saleID)

	select {
	case s.ch <- struct{}{}:
		return l.releaser(saleID, s), nil
	default:
	}

	select {
	case s.ch <- struct{}{}:
		return l.releaser(saleID, s), nil
	case <-ctx.Done():
		l.unref(saleID, s)
		return nil, busy(saleID, ctx.Err())
	}
}

// Held reports how many sales currently have a holder or waiters
func (l *Local) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func (l *Local) ref(saleID int64) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[saleID]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[saleID] = s
	}
	s.refs++
	return s
}

func (l *Local) unref(saleID int64, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.slots, saleID)
	}
}

func (l *Local) releaser(saleID int64, s *slot) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.unref(saleID, s)
		})
	}
}

func busy(saleID int64, cause error) error {
	return fmt.Errorf("salelock: sale %d: %w: %w", saleID, biddingerrors.ErrBusy, cause)
}
