package domain

import "time"

// LinkPhase is a position in the account-linking lifecycle.
type LinkPhase string

const (
	// LinkPhaseUnlinked means no access token is bound to the user.
	LinkPhaseUnlinked LinkPhase = "unlinked"

	// LinkPhaseInitiated means a LinkState was issued to the voice platform.
	LinkPhaseInitiated LinkPhase = "link_initiated"

	// LinkPhaseProviderAuthorizing means the browser was sent to the provider.
	LinkPhaseProviderAuthorizing LinkPhase = "provider_authorizing"

	// LinkPhaseLinked means an access token is bound to the user.
	LinkPhaseLinked LinkPhase = "linked"
)

// StateKind identifies a family of correlation tokens.
type StateKind string

const (
	// StateKindLink is the skill-facing token handed to the voice platform.
	StateKindLink StateKind = "link"

	// StateKindProvider is the provider-facing OAuth state parameter.
	StateKindProvider StateKind = "todoist-state"
)

// Key prefixes inside the shared token store namespace.
const (
	LinkStatePrefix     = "link:"
	ProviderStatePrefix = "todoist-state:"
	AccessTokenPrefix   = "token:"
)

// DefaultStateTTL is how long a correlation token stays valid.
const DefaultStateTTL = 600 * time.Second

// StateKey returns the store key for a correlation token of the given kind.
func StateKey(kind StateKind, state string) string {
	switch kind {
	case StateKindProvider:
		return ProviderStatePrefix + state
	default:
		return LinkStatePrefix + state
	}
}

// AccessTokenKey returns the store key of a user's AccessTokenBinding.
func AccessTokenKey(userID string) string {
	return AccessTokenPrefix + userID
}

// StateRecord is the stored payload of a LinkState or ProviderOAuthState.
// A record with ConsumedAt set is a tombstone left behind by a consume.
type StateRecord struct {
	UserID     string     `json:"user_id"`
	IssuedAt   time.Time  `json:"issued_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
}

// IsExpired reports whether the record's validity window has passed.
func (r *StateRecord) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// IsConsumed reports whether the record is a consume tombstone.
func (r *StateRecord) IsConsumed() bool {
	return r.ConsumedAt != nil
}
