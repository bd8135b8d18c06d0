package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the Spotify Web API root.
	DefaultBaseURL = "https://api.spotify.com/v1"

	// DefaultTimeout bounds a single Web API request.
	DefaultTimeout = 30 * time.Second

	userAgent = "spotifytv/1.0"
)

// Config configures a Client.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// BaseURL, AuthURL and TokenURL default to Spotify's production
	// endpoints.
	BaseURL  string
	AuthURL  string
	TokenURL string

	Timeout time.Duration
}

// OAuthConfig returns the authorization-code configuration for cfg.
func OAuthConfig(cfg Config) *oauth2.Config {
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = spotifyauth.AuthURL
	}
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}
}

// Client is an authenticated Web API client.
type Client struct {
	resty  *resty.Client
	source *persistingSource
	logger *zap.Logger
}

// NewClient loads the cached token from store and builds a client that
// authenticates every request with it. The parent directory of the cache is
// created if missing.
func NewClient(ctx context.Context, cfg Config, store *TokenStore, logger *zap.Logger) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("token store is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if err := store.EnsureParentDir(); err != nil {
		return nil, err
	}
	cached, err := store.Load()
	if err != nil {
		return nil, err
	}

	// Pooled transport shared by API calls and token refreshes. Requests are
	// not retried.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	httpClient := &http.Client{
		Transport: retryClient.HTTPClient.Transport,
		Timeout:   cfg.Timeout,
	}

	oauthCtx := context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	source := newPersistingSource(oauthCtx, OAuthConfig(cfg), store, cached, logger)

	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")
	restyClient.SetTransport(httpClient.Transport)
	restyClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		tok, err := source.Token()
		if err != nil {
			return err
		}
		req.SetAuthToken(tok.AccessToken)
		return nil
	})

	return &Client{
		resty:  restyClient,
		source: source,
		logger: logger,
	}, nil
}

// Refresh forces a refresh-token exchange and caches the result.
func (c *Client) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tok, err := c.source.forceRefresh()
	if err != nil {
		return err
	}
	c.logger.Info("Token refreshed", zap.Time("expires_at", tok.Expiry))
	return nil
}

// CurrentPlayback returns the playback snapshot, or nil when no session is
// active anywhere. Podcast episodes are included.
func (c *Client) CurrentPlayback(ctx context.Context) (*Playback, error) {
	resp, err := c.do(ctx, http.MethodGet, "/me/player", func(r *resty.Request) {
		r.SetQueryParam("additional_types", "episode")
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNoContent || len(resp.Body()) == 0 {
		return nil, nil
	}

	var payload playbackJSON
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode playback: %w", err)
	}
	pb := &Playback{IsPlaying: payload.IsPlaying}
	if payload.Device != nil {
		dev := payload.Device.device()
		pb.Device = &dev
	}
	return pb, nil
}

// Devices lists the user's available devices in API order.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	resp, err := c.do(ctx, http.MethodGet, "/me/player/devices", nil)
	if err != nil {
		return nil, err
	}

	var payload devicesJSON
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}
	devices := make([]Device, 0, len(payload.Devices))
	for _, d := range payload.Devices {
		devices = append(devices, d.device())
	}
	return devices, nil
}

// TransferPlayback moves playback to deviceID, starting it when play is true.
func (c *Client) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	_, err := c.do(ctx, http.MethodPut, "/me/player", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").
			SetBody(transferJSON{DeviceIDs: []string{deviceID}, Play: play})
	})
	return err
}

// Pause pauses playback on deviceID.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	_, err := c.do(ctx, http.MethodPut, "/me/player/pause", deviceQuery(deviceID))
	return err
}

// Resume resumes playback on deviceID.
func (c *Client) Resume(ctx context.Context, deviceID string) error {
	_, err := c.do(ctx, http.MethodPut, "/me/player/play", deviceQuery(deviceID))
	return err
}

func deviceQuery(deviceID string) func(*resty.Request) {
	return func(r *resty.Request) {
		if deviceID != "" {
			r.SetQueryParam("device_id", deviceID)
		}
	}
}

// do executes one request and maps non-2xx responses to *APIError.
func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request)) (*resty.Response, error) {
	req := c.resty.R().SetContext(ctx)
	if build != nil {
		build(req)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Spotify request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)))

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode(),
			Body:   string(resp.Body()),
		}
	}
	return resp, nil
}
