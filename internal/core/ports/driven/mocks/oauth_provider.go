package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// MockOAuthProvider is a testify mock of OAuthProvider.
// AuthCodeURL is deterministic; Exchange must be set up with On.
type MockOAuthProvider struct {
	mock.Mock

	// AuthorizeURL is the provider authorize endpoint used by AuthCodeURL.
	AuthorizeURL string
}

// AuthCodeURL builds the provider URL carrying state.
func (m *MockOAuthProvider) AuthCodeURL(state string) string {
	base := m.AuthorizeURL
	if base == "" {
		base = "https://todoist.example/oauth/authorize"
	}
	return base + "?" + url.Values{"state": {state}}.Encode()
}

func (m *MockOAuthProvider) Exchange(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}
