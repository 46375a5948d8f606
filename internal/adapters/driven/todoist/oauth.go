package todoist

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
)

// Ensure OAuthProvider implements the interface.
var _ driven.OAuthProvider = (*OAuthProvider)(nil)

const (
	// DefaultAuthURL is the Todoist authorize endpoint.
	DefaultAuthURL = "https://todoist.com/oauth/authorize"

	// DefaultTokenURL is the Todoist token endpoint.
	DefaultTokenURL = "https://todoist.com/oauth/access_token"

	// Scope grants task creation.
	Scope = "data:read_write"
)

// OAuthConfig holds the registered application credentials.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// AuthURL and TokenURL default to the Todoist endpoints.
	AuthURL  string
	TokenURL string

	// HTTPClient is used for the code exchange.
	HTTPClient *http.Client
}

// OAuthProvider runs the Todoist authorization-code flow.
type OAuthProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

// NewOAuthProvider creates a Todoist OAuth provider.
func NewOAuthProvider(cfg OAuthConfig) *OAuthProvider {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}

	return &OAuthProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{Scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: hc,
	}
}

// AuthCodeURL returns the provider authorize URL carrying state.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token.
func (p *OAuthProvider) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", fmt.Errorf("token endpoint returned %d: %s", re.Response.StatusCode, describe(re))
		}
		return "", fmt.Errorf("exchange code: %w", err)
	}
	return token.AccessToken, nil
}

func describe(re *oauth2.RetrieveError) string {
	if re.ErrorCode != "" {
		if re.ErrorDescription != "" {
			return re.ErrorCode + ": " + re.ErrorDescription
		}
		return re.ErrorCode
	}
	return string(re.Body)
}
