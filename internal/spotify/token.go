package spotify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Token is the cached OAuth token.
type Token struct {
	AccessToken  string
	RefreshToken string
	Scopes       []string
	ExpiresAt    time.Time
	TokenType    string
}

// tokenFile is the on-disk JSON shape. Scope is written as a space-separated
// string and read as either a string or an array.
type tokenFile struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	Scope        json.RawMessage `json:"scope,omitempty"`
	ExpiresAt    *json.Number    `json:"expires_at,omitempty"`
	ExpiresIn    *json.Number    `json:"expires_in,omitempty"`
	Expiry       *time.Time      `json:"expiry,omitempty"`
	TokenType    string          `json:"token_type"`
}

// MarshalJSON implements json.Marshaler.
func (t Token) MarshalJSON() ([]byte, error) {
	scope, err := json.Marshal(strings.Join(t.Scopes, " "))
	if err != nil {
		return nil, err
	}
	f := tokenFile{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Scope:        scope,
		TokenType:    t.TokenType,
	}
	if !t.ExpiresAt.IsZero() {
		n := json.Number(fmt.Sprint(t.ExpiresAt.Unix()))
		f.ExpiresAt = &n
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler. Besides expires_at it accepts
// expires_in (relative to now) and the RFC 3339 expiry written by
// oauth2.Token.
func (t *Token) UnmarshalJSON(data []byte) error {
	var f tokenFile
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}

	scopes, err := parseScope(f.Scope)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	switch {
	case f.ExpiresAt != nil:
		secs, err := f.ExpiresAt.Float64()
		if err != nil {
			return fmt.Errorf("expires_at: %w", err)
		}
		expiresAt = time.Unix(int64(secs), 0)
	case f.ExpiresIn != nil:
		secs, err := f.ExpiresIn.Float64()
		if err != nil {
			return fmt.Errorf("expires_in: %w", err)
		}
		expiresAt = time.Now().Add(time.Duration(secs) * time.Second).Truncate(time.Second)
	case f.Expiry != nil:
		expiresAt = *f.Expiry
	}

	*t = Token{
		AccessToken:  f.AccessToken,
		RefreshToken: f.RefreshToken,
		Scopes:       scopes,
		ExpiresAt:    expiresAt,
		TokenType:    f.TokenType,
	}
	return nil
}

func parseScope(raw json.RawMessage) ([]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("scope: %w", err)
		}
		if fields := strings.Fields(s); len(fields) > 0 {
			return fields, nil
		}
		return nil, nil
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("scope: %w", err)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("scope: expected string or array, got %s", raw)
	}
}

// OAuth2 converts the token for use with golang.org/x/oauth2.
func (t *Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
	}
}

// TokenFromOAuth2 converts an oauth2 token. Fields the server omitted on
// refresh (refresh token, scope) are carried over from prev, which may be nil.
func TokenFromOAuth2(tok *oauth2.Token, prev *Token) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.Truncate(time.Second),
		TokenType:    tok.TokenType,
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		t.Scopes = strings.Fields(scope)
	}
	if prev != nil {
		if t.RefreshToken == "" {
			t.RefreshToken = prev.RefreshToken
		}
		if t.Scopes == nil {
			t.Scopes = prev.Scopes
		}
	}
	return t
}

// TokenStore owns the token cache file.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store for the cache file at path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the cache file path.
func (s *TokenStore) Path() string {
	return s.path
}

// EnsureParentDir creates the directory chain containing the cache file.
func (s *TokenStore) EnsureParentDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token cache directory %s: %w", dir, err)
	}
	return nil
}

// Load reads the cached token. A missing file is a *NoCredentialsError; an
// unparsable one, or one without a refresh token, is a *CacheCorruptError.
func (s *TokenStore) Load() (*Token, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NoCredentialsError{Path: s.path}
	}
	if err != nil {
		return nil, fmt.Errorf("read token cache %s: %w", s.path, err)
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, &CacheCorruptError{Path: s.path, Err: err}
	}
	if tok.RefreshToken == "" {
		return nil, &CacheCorruptError{Path: s.path, Err: errors.New("missing refresh_token")}
	}
	return &tok, nil
}

// Save writes the token with mode 0600. The file is replaced atomically so a
// reader never observes a partial write.
func (s *TokenStore) Save(tok *Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write token cache: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}
