package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Subscription tiers. Premium unlocks draft-day analysis and SMS alerts.
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// SubscriptionService resolves a user's tier from the Supabase subscriptions
// table and memoizes the answer in Redis. Tier lookups sit on the request
// path, so any failure degrades to the free tier instead of erroring.
type SubscriptionService struct {
	httpClient  *http.Client
	cache       *CacheService
	supabaseURL string
	serviceKey  string
	memoTTL     time.Duration
	logger      *logrus.Logger
}

type supabaseSubscription struct {
	UserID    string `json:"user_id"`
	Tier      string `json:"tier"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

type supabaseProfile struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number"`
}

func NewSubscriptionService(supabaseURL, serviceKey string, cache *CacheService, memoTTL time.Duration, logger *logrus.Logger) *SubscriptionService {
	if memoTTL <= 0 {
		memoTTL = 5 * time.Minute
	}
	return &SubscriptionService{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		cache:       cache,
		supabaseURL: supabaseURL,
		serviceKey:  serviceKey,
		memoTTL:     memoTTL,
		logger:      logger,
	}
}

// GetTier returns the user's subscription tier. Anonymous users and lookup
// failures both resolve to free.
func (s *SubscriptionService) GetTier(ctx context.Context, userID string) string {
	if userID == "" {
		return TierFree
	}

	cacheKey := TierCacheKey(userID)
	var cached string
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
		return cached
	} else if err != nil && !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).Debug("Tier memo unavailable")
	}

	tier, err := s.fetchTier(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Subscription lookup failed, defaulting to free tier")
		return TierFree
	}

	if err := s.cache.Set(ctx, cacheKey, tier, s.memoTTL); err != nil {
		s.logger.WithError(err).Debug("Failed to memoize tier")
	}
	return tier
}

// IsPremium is a convenience wrapper for the gating checks in handlers.
func (s *SubscriptionService) IsPremium(ctx context.Context, userID string) bool {
	return s.GetTier(ctx, userID) == TierPremium
}

// InvalidateTier drops the memoized tier, for use after billing webhooks.
func (s *SubscriptionService) InvalidateTier(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, TierCacheKey(userID)); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to drop tier memo")
	}
}

// GetPhoneNumber returns the verified phone number on the user's profile,
// empty when none is set.
func (s *SubscriptionService) GetPhoneNumber(ctx context.Context, userID string) (string, error) {
	if s.supabaseURL == "" {
		return "", fmt.Errorf("supabase not configured")
	}

	url := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s&select=id,phone_number", s.supabaseURL, userID)
	var profiles []supabaseProfile
	if err := s.getJSON(ctx, url, &profiles); err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		return "", nil
	}
	return profiles[0].PhoneNumber, nil
}

func (s *SubscriptionService) fetchTier(ctx context.Context, userID string) (string, error) {
	if s.supabaseURL == "" {
		return TierFree, nil
	}

	url := fmt.Sprintf("%s/rest/v1/subscriptions?user_id=eq.%s&status=eq.active&select=user_id,tier,status,expires_at",
		s.supabaseURL, userID)

	var subscriptions []supabaseSubscription
	if err := s.getJSON(ctx, url, &subscriptions); err != nil {
		return "", err
	}

	for _, sub := range subscriptions {
		if sub.Tier == TierPremium {
			return TierPremium, nil
		}
	}
	return TierFree, nil
}

func (s *SubscriptionService) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
