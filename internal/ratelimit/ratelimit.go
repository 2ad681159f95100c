package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter решает, можно ли пропустить очередную попытку для ключа
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Policy - не больше attempts попыток за фиксированное окно window.
// Счетчик обнуляется целиком, когда окно истекло.
type Policy struct {
	Attempts int
	Window   time.Duration
}

type entry struct {
	limiter     *rate.Limiter
	windowStart time.Time
}

// MemoryLimiter - фиксированное окно на ключ в памяти процесса
type MemoryLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	policy   Policy
	now      func() time.Time
}

func NewMemoryLimiter(p Policy) *MemoryLimiter {
	return &MemoryLimiter{
		limiters: make(map[string]*entry),
		policy:   p,
		now:      time.Now,
	}
}

// newWindowLimiter - корзина без пополнения: Limit 0 расходует только burst
func (l *MemoryLimiter) newWindowLimiter() *rate.Limiter {
	return rate.NewLimiter(0, l.policy.Attempts)
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[key]
	if !ok || now.Sub(e.windowStart) >= l.policy.Window {
		e = &entry{limiter: l.newWindowLimiter(), windowStart: now}
		l.limiters[key] = e
	}
	return e.limiter.AllowN(now, 1), nil
}

// Cleanup удаляет ключи, чье окно уже истекло
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, e := range l.limiters {
		if now.Sub(e.windowStart) >= l.policy.Window {
			delete(l.limiters, key)
		}
	}
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// StartCleanup периодически вызывает Cleanup до отмены ctx
func (l *MemoryLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Cleanup()
			}
		}
	}()
}
