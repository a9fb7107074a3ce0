package services

import (
	"fmt"
	"sync"
	"time"
)

// AlertRateLimiter caps draft alerts per phone number over a sliding
// window, so a flurry of recorded picks cannot burn SMS spend on one user.
type AlertRateLimiter struct {
	mu          sync.RWMutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
}

func NewAlertRateLimiter(maxRequests int, window time.Duration) *AlertRateLimiter {
	if maxRequests <= 0 {
		maxRequests = 3
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &AlertRateLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
	}
}

// Allow records an alert for the phone number, or reports that the window
// is full.
func (rl *AlertRateLimiter) Allow(phoneNumber string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.dropExpired(phoneNumber, now)

	if len(rl.requests[phoneNumber]) >= rl.maxRequests {
		return fmt.Errorf("alert limit reached: maximum %d per %v", rl.maxRequests, rl.window)
	}

	rl.requests[phoneNumber] = append(rl.requests[phoneNumber], now)
	return nil
}

// dropExpired removes entries outside the sliding window. Callers hold the
// write lock.
func (rl *AlertRateLimiter) dropExpired(phoneNumber string, now time.Time) {
	requests, exists := rl.requests[phoneNumber]
	if !exists {
		return
	}

	cutoff := now.Add(-rl.window)
	valid := make([]time.Time, 0, len(requests))
	for _, req := range requests {
		if req.After(cutoff) {
			valid = append(valid, req)
		}
	}

	if len(valid) == 0 {
		delete(rl.requests, phoneNumber)
	} else {
		rl.requests[phoneNumber] = valid
	}
}

// TrackedNumbers reports how many phone numbers currently hold window state.
func (rl *AlertRateLimiter) TrackedNumbers() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.requests)
}

// Reset clears all window state.
func (rl *AlertRateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.requests = make(map[string][]time.Time)
}
