package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

// Login signs in with email and password. On success the backend sets a
// session cookie which the client's jar carries on subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var user User
	req := loginRequest{Email: email, Password: password}
	if err := c.do(ctx, KindAuth, http.MethodPost, "/api/v1/auth/login", nil, req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout clears the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, KindAuth, http.MethodPost, "/api/v1/auth/logout", nil, nil, nil)
}

// OAuthFlow drives the Google authorization-code sign-in used as an
// alternative to password login. The user opens AuthURL in a browser,
// approves, and pastes the code back; Exchange trades it for a token and
// establishes the backend session.
type OAuthFlow struct {
	client *Client
	config *oauth2.Config
	state  string
}

func NewOAuthFlow(client *Client, clientID, clientSecret, redirectURL string) *OAuthFlow {
	if redirectURL == "" {
		redirectURL = "urn:ietf:wg:oauth:2.0:oob"
	}
	return &OAuthFlow{
		client: client,
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
		},
		state: uuid.NewString(),
	}
}

// AuthURL returns the consent-screen URL for this flow.
func (f *OAuthFlow) AuthURL() string {
	return f.config.AuthCodeURL(f.state, oauth2.AccessTypeOffline)
}

// State returns the anti-forgery state token the callback must echo.
func (f *OAuthFlow) State() string {
	return f.state
}

// Exchange trades the pasted authorization code for a token and logs the
// resulting identity into the backend.
func (f *OAuthFlow) Exchange(ctx context.Context, code string) (User, error) {
	token, err := f.config.Exchange(ctx, code)
	if err != nil {
		return User{}, &APIError{Kind: KindAuth, Message: err.Error()}
	}

	var user User
	req := googleLoginRequest{AccessToken: token.AccessToken}
	if err := f.client.do(ctx, KindAuth, http.MethodPost, "/api/v1/auth/google", nil, req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}
