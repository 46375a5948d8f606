package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driving"
	"github.com/custodia-labs/alice-todoist/internal/logger"
	"github.com/custodia-labs/alice-todoist/internal/metrics"
)

// Ensure linkingService implements LinkingService
var _ driving.LinkingService = (*linkingService)(nil)

// LinkingServiceConfig holds configuration for the linking service.
type LinkingServiceConfig struct {
	// Store holds correlation tokens and access-token bindings.
	Store driven.TokenStore

	// Provider performs the upstream authorization-code flow.
	Provider driven.OAuthProvider

	// States generates correlation tokens. Defaults to UUIDStateGenerator.
	States driven.StateGenerator

	// BaseURL is the public base URL of this service, used to build the
	// skill-facing authorize link.
	// Example: "https://skill.example.com"
	BaseURL string

	// StateTTL is the validity window of LinkState and ProviderOAuthState.
	// Defaults to domain.DefaultStateTTL.
	StateTTL time.Duration

	// StateRetention keeps expired and consumed records readable for this
	// long so rejections can be told apart. Defaults to StateTTL.
	StateRetention time.Duration

	Logger *slog.Logger

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

type linkingService struct {
	store     driven.TokenStore
	provider  driven.OAuthProvider
	states    driven.StateGenerator
	baseURL   string
	ttl       time.Duration
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewLinkingService creates a new linking service.
func NewLinkingService(cfg LinkingServiceConfig) driving.LinkingService {
	s := &linkingService{
		store:     cfg.Store,
		provider:  cfg.Provider,
		states:    cfg.States,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		ttl:       cfg.StateTTL,
		retention: cfg.StateRetention,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.states == nil {
		s.states = UUIDStateGenerator{}
	}
	if s.ttl <= 0 {
		s.ttl = domain.DefaultStateTTL
	}
	if s.retention <= 0 {
		s.retention = s.ttl
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// BeginLink moves the user from Unlinked to LinkInitiated.
// The LinkState is stored before the URL naming it is returned.
func (s *linkingService) BeginLink(ctx context.Context, userID string) (*driving.LinkInvitation, error) {
	if userID == "" {
		return nil, fmt.Errorf("begin link: %w", domain.ErrInvalidInput)
	}

	state, expiresAt, err := s.issueState(ctx, domain.StateKindLink, userID)
	if err != nil {
		return nil, fmt.Errorf("issue link state: %w", err)
	}

	metrics.LinkTransitions.WithLabelValues(metrics.TransitionBeginLink).Inc()
	logger.With(ctx, s.logger).Info("link initiated",
		"user_id", userID,
		"phase", domain.LinkPhaseInitiated,
		"expires_at", expiresAt)

	return &driving.LinkInvitation{
		State:        state,
		AuthorizeURL: s.baseURL + "/oauth/authorize?" + url.Values{"state": {state}}.Encode(),
		ExpiresAt:    expiresAt,
	}, nil
}

// Authorize moves the user from LinkInitiated to ProviderAuthorizing.
func (s *linkingService) Authorize(ctx context.Context, linkState string) (string, error) {
	rec, err := s.consumeState(ctx, domain.StateKindLink, linkState)
	if err != nil {
		return "", fmt.Errorf("consume link state: %w", err)
	}

	providerState, _, err := s.issueState(ctx, domain.StateKindProvider, rec.UserID)
	if err != nil {
		return "", fmt.Errorf("issue provider state: %w", err)
	}

	metrics.LinkTransitions.WithLabelValues(metrics.TransitionAuthorize).Inc()
	logger.With(ctx, s.logger).Info("redirecting to provider",
		"user_id", rec.UserID,
		"phase", domain.LinkPhaseProviderAuthorizing)

	return s.provider.AuthCodeURL(providerState), nil
}

// Callback moves the user from ProviderAuthorizing to Linked.
// The provider state is consumed before anything else so a failed
// callback can never be retried with the same state.
func (s *linkingService) Callback(ctx context.Context, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	rec, err := s.consumeState(ctx, domain.StateKindProvider, req.State)
	if err != nil {
		return nil, fmt.Errorf("consume provider state: %w", err)
	}

	log := logger.With(ctx, s.logger).With("user_id", rec.UserID)

	if req.Error != "" {
		log.Warn("provider reported authorization error",
			"error", req.Error,
			"error_description", req.ErrorDescription)
		return nil, &driving.OAuthError{Code: req.Error, Description: req.ErrorDescription}
	}
	if req.Code == "" {
		return nil, driving.ErrOAuthMissingCode
	}

	token, err := s.provider.Exchange(ctx, req.Code)
	if err != nil {
		log.Error("authorization code exchange failed", "error", err)
		return nil, &driving.OAuthError{
			Code:        driving.ErrOAuthExchangeFailed.Code,
			Description: driving.ErrOAuthExchangeFailed.Description,
			Cause:       err,
		}
	}
	if token == "" {
		log.Error("authorization code exchange returned no access token")
		return nil, driving.ErrOAuthExchangeFailed
	}

	if err := s.store.Put(ctx, domain.AccessTokenKey(rec.UserID), token, 0); err != nil {
		return nil, fmt.Errorf("save access token: %w", err)
	}

	metrics.LinkTransitions.WithLabelValues(metrics.TransitionLinked).Inc()
	log.Info("account linked", "phase", domain.LinkPhaseLinked)

	return &driving.CallbackResponse{UserID: rec.UserID}, nil
}

// AccessToken returns the user's AccessTokenBinding.
func (s *linkingService) AccessToken(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", domain.ErrNotFound
	}
	token, err := s.store.Get(ctx, domain.AccessTokenKey(userID))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get access token: %w", err)
	}
	return token, nil
}

// Unlink moves the user from Linked back to Unlinked.
func (s *linkingService) Unlink(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, domain.AccessTokenKey(userID)); err != nil {
		return fmt.Errorf("delete access token: %w", err)
	}

	metrics.LinkTransitions.WithLabelValues(metrics.TransitionUnlinked).Inc()
	logger.With(ctx, s.logger).Info("account unlinked",
		"user_id", userID,
		"phase", domain.LinkPhaseUnlinked)
	return nil
}

// Status reports Linked when a binding exists and Unlinked otherwise.
// In-flight phases live only in correlation tokens keyed by state, so
// they are not observable per user.
func (s *linkingService) Status(ctx context.Context, userID string) (domain.LinkPhase, error) {
	_, err := s.AccessToken(ctx, userID)
	switch {
	case err == nil:
		return domain.LinkPhaseLinked, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.LinkPhaseUnlinked, nil
	default:
		return "", err
	}
}

// issueState generates a state, persists its record and returns it.
func (s *linkingService) issueState(ctx context.Context, kind domain.StateKind, userID string) (string, time.Time, error) {
	state, err := s.states.Generate()
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now()
	rec := domain.StateRecord{
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("marshal state record: %w", err)
	}

	if err := s.store.Put(ctx, domain.StateKey(kind, state), string(data), s.ttl+s.retention); err != nil {
		return "", time.Time{}, fmt.Errorf("save state: %w", err)
	}

	return state, rec.ExpiresAt, nil
}

// consumeState atomically takes a state record out of the store and
// classifies it. Only a live, never-consumed record is returned.
func (s *linkingService) consumeState(ctx context.Context, kind domain.StateKind, state string) (*domain.StateRecord, error) {
	log := logger.With(ctx, s.logger).With("kind", kind)

	if state == "" {
		metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultUnknown).Inc()
		return nil, domain.ErrStateNotFound
	}

	key := domain.StateKey(kind, state)
	raw, err := s.store.GetAndDelete(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultUnknown).Inc()
			log.Warn("unknown state presented")
			return nil, domain.ErrStateNotFound
		}
		metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultError).Inc()
		return nil, err
	}

	var rec domain.StateRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultUnknown).Inc()
		log.Error("failed to parse stored state", "error", err)
		return nil, domain.ErrStateNotFound
	}

	now := s.now()

	if rec.IsConsumed() {
		// Put the tombstone back for the rest of its window so further
		// replays are classified the same way.
		if remaining := rec.ConsumedAt.Add(s.retention).Sub(now); remaining > 0 {
			if err := s.store.Put(ctx, key, raw, remaining); err != nil {
				log.Warn("failed to restore state tombstone", "error", err)
			}
		}
		metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultReplayed).Inc()
		log.Warn("replayed state presented", "user_id", rec.UserID, "consumed_at", rec.ConsumedAt)
		return nil, domain.ErrStateReplayed
	}

	if rec.IsExpired(now) {
		metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultExpired).Inc()
		log.Info("expired state presented", "user_id", rec.UserID, "expired_at", rec.ExpiresAt)
		return nil, domain.ErrStateExpired
	}

	s.leaveTombstone(ctx, key, rec, now)

	metrics.StateConsumes.WithLabelValues(string(kind), metrics.ResultConsumed).Inc()
	return &rec, nil
}

// leaveTombstone records that the state was used. Failure only costs
// the replay classification, so it is logged and ignored.
func (s *linkingService) leaveTombstone(ctx context.Context, key string, rec domain.StateRecord, now time.Time) {
	rec.ConsumedAt = &now
	data, err := json.Marshal(rec)
	if err == nil {
		err = s.store.Put(ctx, key, string(data), s.retention)
	}
	if err != nil {
		logger.With(ctx, s.logger).Warn("failed to write state tombstone", "error", err)
	}
}
