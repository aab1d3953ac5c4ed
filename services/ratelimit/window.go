package ratelimit

import (
	"math"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	DefaultPerMinute = 5
	DefaultPerHour   = 30

	entryTTL        = 2 * time.Hour
	cleanupInterval = 10 * time.Minute
)

// Limits caps requests per fixed minute and hour windows.
type Limits struct {
	PerMinute int
	PerHour   int
}

// Decision is the outcome of one Allow call. RetryAfter is in whole seconds.
type Decision struct {
	Allowed    bool
	RetryAfter int
}

type counter struct {
	minuteStart time.Time
	hourStart   time.Time
	minuteCount int
	hourCount   int
}

// Window counts requests per key in fixed windows. Idle keys expire from the
// cache after two hours.
type Window struct {
	mu     sync.Mutex
	limits Limits
	cache  *cache.Cache
	now    func() time.Time
}

func New(limits Limits) *Window {
	if limits.PerMinute <= 0 {
		limits.PerMinute = DefaultPerMinute
	}
	if limits.PerHour <= 0 {
		limits.PerHour = DefaultPerHour
	}
	return &Window{
		limits: limits,
		cache:  cache.New(entryTTL, cleanupInterval),
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (w *Window) WithClock(now func() time.Time) *Window {
	w.now = now
	return w
}

// Allow records a request for key unless a window is already full.
func (w *Window) Allow(key string) Decision {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	c, ok := w.get(key)
	if !ok {
		c = &counter{minuteStart: now, hourStart: now}
	}
	if now.Sub(c.minuteStart) >= time.Minute {
		c.minuteStart = now
		c.minuteCount = 0
	}
	if now.Sub(c.hourStart) >= time.Hour {
		c.hourStart = now
		c.hourCount = 0
	}
	defer w.cache.SetDefault(key, c)

	minuteFull := c.minuteCount >= w.limits.PerMinute
	hourFull := c.hourCount >= w.limits.PerHour
	if minuteFull || hourFull {
		retry := 1
		if minuteFull {
			retry = max(retry, remaining(time.Minute, now.Sub(c.minuteStart)))
		}
		if hourFull {
			retry = max(retry, remaining(time.Hour, now.Sub(c.hourStart)))
		}
		return Decision{Allowed: false, RetryAfter: retry}
	}

	c.minuteCount++
	c.hourCount++
	return Decision{Allowed: true}
}

func (w *Window) get(key string) (*counter, bool) {
	v, ok := w.cache.Get(key)
	if !ok {
		return nil, false
	}
	c, ok := v.(*counter)
	return c, ok
}

// Len reports how many keys are tracked.
func (w *Window) Len() int { return w.cache.ItemCount() }

func remaining(window, elapsed time.Duration) int {
	return int(math.Ceil((window - elapsed).Seconds()))
}
