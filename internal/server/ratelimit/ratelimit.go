// Package ratelimit provides per-client request limiting using token
// buckets, with per-endpoint limits for the expensive remote operations.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// Info describes the rate limit state reported back to the client.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is a token bucket with its refill bookkeeping. Access is guarded
// by the owning Limiter.
type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	refilledAt time.Time
	touchedAt  time.Time
}

func (b *bucket) refill(now time.Time) {
	b.tokens += now.Sub(b.refilledAt).Seconds() * b.refillRate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.refilledAt = now
}

// resetTime reports when the bucket will be full again.
func (b *bucket) resetTime(now time.Time) time.Time {
	if b.tokens >= b.capacity {
		return now
	}
	wait := (b.capacity - b.tokens) / b.refillRate
	return now.Add(time.Duration(wait * float64(time.Second)))
}

// Limiter tracks one token bucket per client+endpoint+method tuple. Idle
// buckets are dropped by a background sweep.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config

	sweepTicker *time.Ticker
	sweepStop   chan struct{}
}

// NewLimiter creates a limiter from the given configuration and starts
// the idle-bucket sweep when enabled.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}

	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
	}
	if config.Enabled && config.SweepInterval > 0 {
		l.sweepTicker = time.NewTicker(config.SweepInterval)
		l.sweepStop = make(chan struct{})
		go l.sweepLoop()
	}
	return l
}

// Allow reports whether a request from clientID for the given path and
// method may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Exempt[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blocked[clientID] {
		return false, Info{}
	}

	ec := l.matchEndpoint(path, method)
	if ec.Limit <= 0 {
		// Unlimited endpoint.
		return true, Info{Allowed: true}
	}

	now := time.Now()
	key := clientID + ":" + method + ":" + ec.Path

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		burst := ec.Burst
		if burst <= 0 {
			burst = ec.Limit
		}
		b = &bucket{
			capacity:   float64(burst),
			refillRate: float64(ec.Limit) / ec.Window.Seconds(),
			tokens:     float64(burst),
			refilledAt: now,
		}
		l.buckets[key] = b
	}
	b.touchedAt = now
	b.refill(now)

	allowed := b.tokens >= 1
	if allowed {
		b.tokens--
	}
	reset := b.resetTime(now)
	remaining := int(b.tokens)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     ec.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		if retry := time.Until(reset); retry > 0 {
			info.RetryAfter = retry
		}
	}
	return allowed, info
}

// matchEndpoint resolves the endpoint configuration for a request. Exact
// path matches win over prefix matches; unmatched requests fall back to
// the default limit.
func (l *Limiter) matchEndpoint(path, method string) EndpointConfig {
	if path == "/health" && method == "GET" {
		return EndpointConfig{Path: path}
	}

	for _, ec := range l.config.Endpoints {
		if ec.Method == method && ec.Path == path {
			return ec
		}
	}
	for _, ec := range l.config.Endpoints {
		if ec.Method == method && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			return ec
		}
	}
	return EndpointConfig{
		Path:   path,
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
	}
}

func (l *Limiter) sweepLoop() {
	for {
		select {
		case <-l.sweepTicker.C:
			l.sweep(time.Now().Add(-time.Hour))
		case <-l.sweepStop:
			return
		}
	}
}

// sweep drops buckets not touched since the cutoff.
func (l *Limiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.touchedAt.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Stop halts the idle-bucket sweep.
func (l *Limiter) Stop() {
	if l.sweepTicker != nil {
		l.sweepTicker.Stop()
	}
	if l.sweepStop != nil {
		close(l.sweepStop)
	}
}
