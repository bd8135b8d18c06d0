package spotify

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// persistingSource hands out access tokens and writes every new one back to
// the cache.
type persistingSource struct {
	mu     sync.Mutex
	ctx    context.Context
	oauth  *oauth2.Config
	base   oauth2.TokenSource
	store  *TokenStore
	last   *Token
	logger *zap.Logger
}

var _ oauth2.TokenSource = (*persistingSource)(nil)

func newPersistingSource(ctx context.Context, oauth *oauth2.Config, store *TokenStore, cached *Token, logger *zap.Logger) *persistingSource {
	return &persistingSource{
		ctx:    ctx,
		oauth:  oauth,
		base:   oauth.TokenSource(ctx, cached.OAuth2()),
		store:  store,
		last:   cached,
		logger: logger,
	}
}

// Token implements oauth2.TokenSource.
func (s *persistingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenLocked()
}

// forceRefresh discards the current access token and exchanges the refresh
// token for a new one.
func (s *persistingSource) forceRefresh() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base = s.oauth.TokenSource(s.ctx, &oauth2.Token{
		RefreshToken: s.last.RefreshToken,
		TokenType:    s.last.TokenType,
	})
	return s.tokenLocked()
}

func (s *persistingSource) tokenLocked() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, &TokenRefreshError{Err: err}
	}
	if tok.AccessToken == s.last.AccessToken {
		return tok, nil
	}

	next := TokenFromOAuth2(tok, s.last)
	if err := s.store.Save(next); err != nil {
		return nil, err
	}
	s.last = next
	s.logger.Debug("Token cached",
		zap.String("path", s.store.Path()),
		zap.Time("expires_at", next.ExpiresAt))
	return tok, nil
}
