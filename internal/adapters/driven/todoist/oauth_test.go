package todoist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthProvider_AuthCodeURL(t *testing.T) {
	p := NewOAuthProvider(OAuthConfig{
		ClientID:    "client-1",
		RedirectURI: "https://skill.example.com/oauth/callback",
	})

	raw := p.AuthCodeURL("provider-state")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "todoist.com", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)

	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "data:read_write", q.Get("scope"))
	assert.Equal(t, "provider-state", q.Get("state"))
	assert.Equal(t, "https://skill.example.com/oauth/callback", q.Get("redirect_uri"))
}

func TestOAuthProvider_Exchange(t *testing.T) {
	var form url.Values
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"todoist-token","token_type":"Bearer"}`))
	}))
	defer server.Close()

	p := NewOAuthProvider(OAuthConfig{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "https://skill.example.com/oauth/callback",
		TokenURL:     server.URL + "/oauth/access_token",
	})

	token, err := p.Exchange(context.Background(), "code-1")
	require.NoError(t, err)
	assert.Equal(t, "todoist-token", token)

	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
	assert.Equal(t, "client-1", form.Get("client_id"))
	assert.Equal(t, "secret-1", form.Get("client_secret"))
	assert.Equal(t, "code-1", form.Get("code"))
	assert.Equal(t, "https://skill.example.com/oauth/callback", form.Get("redirect_uri"))
	assert.Equal(t, "authorization_code", form.Get("grant_type"))
}

func TestOAuthProvider_Exchange_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"invalid grant", http.StatusBadRequest, `{"error":"invalid_grant"}`, "invalid_grant"},
		{"server error", http.StatusBadGateway, `upstream down`, "502"},
		{"missing access token", http.StatusOK, `{"token_type":"Bearer"}`, "access_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := NewOAuthProvider(OAuthConfig{ClientID: "c", ClientSecret: "s", TokenURL: server.URL})

			token, err := p.Exchange(context.Background(), "code")
			require.Error(t, err)
			assert.Empty(t, token)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestOAuthProvider_Exchange_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	tokenURL := server.URL
	server.Close()

	p := NewOAuthProvider(OAuthConfig{ClientID: "c", ClientSecret: "s", TokenURL: tokenURL})

	_, err := p.Exchange(context.Background(), "code")
	assert.Error(t, err)
}
