package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

// LinkingService drives the account-linking state machine.
// BeginLink runs inside a webhook turn; Authorize and Callback run
// out-of-band in the user's browser.
type LinkingService interface {
	// BeginLink issues a LinkState for the user and returns the
	// skill-facing authorize URL naming it.
	BeginLink(ctx context.Context, userID string) (*LinkInvitation, error)

	// Authorize consumes a LinkState, issues a ProviderOAuthState and
	// returns the provider authorize URL the browser is redirected to.
	Authorize(ctx context.Context, linkState string) (string, error)

	// Callback consumes a ProviderOAuthState, exchanges the authorization
	// code and binds the resulting access token to the user.
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error)

	// AccessToken returns the bound access token.
	// Returns domain.ErrNotFound if the user is not linked.
	AccessToken(ctx context.Context, userID string) (string, error)

	// Unlink deletes the user's AccessTokenBinding.
	Unlink(ctx context.Context, userID string) error

	// Status reports whether the user currently has a binding.
	Status(ctx context.Context, userID string) (domain.LinkPhase, error)
}

// LinkInvitation is the result of BeginLink.
type LinkInvitation struct {
	State        string
	AuthorizeURL string
	ExpiresAt    time.Time
}

// CallbackRequest represents the OAuth callback from the provider.
type CallbackRequest struct {
	// Code is the authorization code from the provider.
	Code string

	// State is the ProviderOAuthState returned by the provider.
	State string

	// Error is set if the provider returned an error.
	Error string

	// ErrorDescription provides details about the error.
	ErrorDescription string
}

// CallbackResponse contains the result of a successful callback.
type CallbackResponse struct {
	UserID string
}

// OAuthError represents an OAuth-specific error.
type OAuthError struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Cause       error  `json:"-"`
}

func (e *OAuthError) Error() string {
	msg := e.Code
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *OAuthError) Unwrap() error {
	return e.Cause
}

// Is matches OAuth errors by code so sentinel values work with errors.Is.
func (e *OAuthError) Is(target error) bool {
	t, ok := target.(*OAuthError)
	return ok && t.Code == e.Code
}

// Common OAuth errors
var (
	ErrOAuthMissingCode    = &OAuthError{Code: "invalid_request", Description: "The code parameter is missing"}
	ErrOAuthAccessDenied   = &OAuthError{Code: "access_denied", Description: "The provider reported an authorization error"}
	ErrOAuthExchangeFailed = &OAuthError{Code: "exchange_failed", Description: "Failed to exchange authorization code for tokens"}
)
