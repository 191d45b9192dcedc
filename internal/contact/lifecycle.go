package contact

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrSubmissionInFlight = errors.New("submission already in flight")

const DefaultSendTimeout = 8 * time.Second

// SendFunc performs one external send of validated fields.
type SendFunc func(ctx context.Context, fields Fields) error

// Lifecycle guards a single visitor's contact submission. At most one send is in
// flight at a time; Submit while submitting is a no-op.
type Lifecycle struct {
	send      SendFunc
	timeout   time.Duration
	now       func() time.Time
	onResolve func(Snapshot, error)

	mu        sync.Mutex
	status    Status
	attempts  int
	updatedAt time.Time
	done      chan struct{}
}

type Option func(*Lifecycle)

func WithTimeout(d time.Duration) Option {
	return func(l *Lifecycle) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// WithResolveHook registers fn to run after every submission resolves.
func WithResolveHook(fn func(Snapshot, error)) Option {
	return func(l *Lifecycle) { l.onResolve = fn }
}

func WithClock(now func() time.Time) Option {
	return func(l *Lifecycle) { l.now = now }
}

func NewLifecycle(send SendFunc, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		send:    send,
		timeout: DefaultSendTimeout,
		now:     time.Now,
		status:  StatusIdle,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Lifecycle) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Lifecycle) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Lifecycle) snapshotLocked() Snapshot {
	return Snapshot{
		Status:    l.status,
		Message:   l.status.Message(),
		Attempts:  l.attempts,
		UpdatedAt: l.updatedAt,
	}
}

// Submit moves to submitting and starts exactly one asynchronous send. The send is
// detached from any caller context and bounded by the lifecycle timeout.
func (l *Lifecycle) Submit(fields Fields) error {
	l.mu.Lock()
	if l.status == StatusSubmitting {
		l.mu.Unlock()
		return ErrSubmissionInFlight
	}
	l.status = StatusSubmitting
	l.attempts++
	l.updatedAt = l.now()
	done := make(chan struct{})
	l.done = done
	l.mu.Unlock()

	go l.run(fields, done)
	return nil
}

func (l *Lifecycle) run(fields Fields, done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	err := l.safeSend(ctx, fields)

	l.mu.Lock()
	if err != nil {
		l.status = StatusFailed
	} else {
		l.status = StatusSucceeded
	}
	l.updatedAt = l.now()
	snap := l.snapshotLocked()
	l.done = nil
	close(done)
	l.mu.Unlock()

	if l.onResolve != nil {
		l.onResolve(snap, err)
	}
}

func (l *Lifecycle) safeSend(ctx context.Context, fields Fields) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("contact: send panicked: %v", r)
		}
	}()
	return l.send(ctx, fields)
}

// Wait blocks until the in-flight submission, if any, resolves or ctx ends.
func (l *Lifecycle) Wait(ctx context.Context) (Snapshot, error) {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done == nil {
		return l.Snapshot(), nil
	}
	select {
	case <-done:
		return l.Snapshot(), nil
	case <-ctx.Done():
		return l.Snapshot(), ctx.Err()
	}
}
