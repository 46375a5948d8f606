package driven

import "context"

// OAuthProvider is the upstream identity provider's authorization-code flow.
type OAuthProvider interface {
	// AuthCodeURL builds the provider authorize URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	// The redirect URI sent must be the one used in AuthCodeURL.
	Exchange(ctx context.Context, code string) (string, error)
}
