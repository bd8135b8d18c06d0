package spotify

import (
	"context"
	"fmt"
	"net/http"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// Exchanger runs the authorization-code flow. *spotifyauth.Authenticator
// implements it.
type Exchanger interface {
	AuthURL(state string, opts ...oauth2.AuthCodeOption) string
	Token(ctx context.Context, state string, r *http.Request, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

var _ Exchanger = (*spotifyauth.Authenticator)(nil)

// Authorizer performs the one-time interactive authorization and seeds the
// token cache.
type Authorizer struct {
	exchanger Exchanger
	store     *TokenStore
	state     string
}

// NewAuthorizer creates an Authorizer against Spotify's accounts service.
// state must be unguessable; it is checked on the callback.
func NewAuthorizer(cfg Config, store *TokenStore, state string) *Authorizer {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(Scopes...),
	)
	return NewAuthorizerWithExchanger(auth, store, state)
}

// NewAuthorizerWithExchanger creates an Authorizer using ex.
func NewAuthorizerWithExchanger(ex Exchanger, store *TokenStore, state string) *Authorizer {
	return &Authorizer{exchanger: ex, store: store, state: state}
}

// URL returns the page the user must visit to grant access.
func (a *Authorizer) URL() string {
	return a.exchanger.AuthURL(a.state)
}

// Complete exchanges the code carried by the redirect request and writes the
// resulting token to the cache.
func (a *Authorizer) Complete(r *http.Request) (*Token, error) {
	tok, err := a.exchanger.Token(r.Context(), a.state, r)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("exchange authorization code: no refresh token granted")
	}

	cached := TokenFromOAuth2(tok, nil)
	if cached.Scopes == nil {
		cached.Scopes = append([]string(nil), Scopes...)
	}
	if err := a.store.EnsureParentDir(); err != nil {
		return nil, err
	}
	if err := a.store.Save(cached); err != nil {
		return nil, err
	}
	return cached, nil
}
