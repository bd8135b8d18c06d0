package spotify

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/spotifytv/tests/helpers/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, fake *testutil.FakeSpotify) (*Client, *TokenStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache", "token.json")
	testutil.WriteTokenCache(t, path)
	store := NewTokenStore(path)

	client, err := NewClient(context.Background(), Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "http://127.0.0.1:8888/callback",
		BaseURL:      fake.BaseURL(),
		TokenURL:     fake.TokenURL(),
	}, store, nil)
	require.NoError(t, err)
	return client, store
}

func TestNewClientMissingCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spotifytv", "token.json")

	_, err := NewClient(context.Background(), Config{}, NewTokenStore(path), nil)

	assert.ErrorIs(t, err, ErrNoCredentials)
	assert.DirExists(t, filepath.Dir(path))
}

func TestNewClientNilStore(t *testing.T) {
	_, err := NewClient(context.Background(), Config{}, nil, nil)
	assert.Error(t, err)
}

func TestRefreshPersistsToken(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	client, store := newTestClient(t, fake)

	require.NoError(t, client.Refresh(context.Background()))
	assert.Equal(t, 1, fake.Refreshes())

	cached, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-access-1", cached.AccessToken)
	assert.Equal(t, "refresh-1", cached.RefreshToken, "refresh token carried over")
	assert.Equal(t, Scopes, cached.Scopes)
	assert.False(t, cached.ExpiresAt.IsZero())
}

func TestRefreshIsForced(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	client, _ := newTestClient(t, fake)

	require.NoError(t, client.Refresh(context.Background()))
	require.NoError(t, client.Refresh(context.Background()))
	assert.Equal(t, 2, fake.Refreshes())
}

func TestRefreshFailure(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	fake.RefreshStatus = http.StatusBadRequest
	client, store := newTestClient(t, fake)

	err := client.Refresh(context.Background())

	var refreshErr *TokenRefreshError
	require.True(t, errors.As(err, &refreshErr), "got %v", err)
	var retrieveErr *oauth2.RetrieveError
	assert.True(t, errors.As(err, &retrieveErr))

	cached, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "stale-access", cached.AccessToken, "cache untouched")
}

func TestCurrentPlayback(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	fake.SetPlayback(`{"device":{"id":"P","name":"Pixel","type":"Smartphone","is_active":true},"is_playing":true,"currently_playing_type":"episode","item":{"type":"episode","name":"Show"}}`)
	client, _ := newTestClient(t, fake)
	require.NoError(t, client.Refresh(context.Background()))

	pb, err := client.CurrentPlayback(context.Background())
	require.NoError(t, err)

	require.NotNil(t, pb)
	assert.True(t, pb.IsPlaying)
	assert.Equal(t, "P", pb.DeviceID())
	assert.Equal(t, "Pixel", pb.Device.Name)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "additional_types=episode", reqs[0].Query)
	assert.Equal(t, "Bearer fresh-access-1", reqs[0].Auth)
}

func TestCurrentPlaybackNoSession(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	client, _ := newTestClient(t, fake)
	require.NoError(t, client.Refresh(context.Background()))

	pb, err := client.CurrentPlayback(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pb)
	assert.Equal(t, "", pb.DeviceID())
}

func TestCurrentPlaybackNullDevice(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	fake.SetPlayback(`{"device":{"id":null,"name":"Web Player"},"is_playing":false}`)
	client, _ := newTestClient(t, fake)
	require.NoError(t, client.Refresh(context.Background()))

	pb, err := client.CurrentPlayback(context.Background())
	require.NoError(t, err)
	require.NotNil(t, pb.Device)
	assert.False(t, pb.Device.HasID())
	assert.Equal(t, "", pb.DeviceID())
}

func TestDevices(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	fake.SetDevices(`{"devices":[
		{"id":"P","name":"Pixel","type":"Smartphone","is_active":true},
		{"id":null,"name":"Kitchen TV","type":"TV","is_restricted":true},
		{"id":"T","name":"Living Room TV","type":"TV"}
	]}`)
	client, _ := newTestClient(t, fake)
	require.NoError(t, client.Refresh(context.Background()))

	devices, err := client.Devices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []Device{
		{ID: "P", Name: "Pixel", Type: "Smartphone", Active: true},
		{Name: "Kitchen TV", Type: "TV", Restricted: true},
		{ID: "T", Name: "Living Room TV", Type: "TV"},
	}, devices)
}

func TestMutations(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	client, _ := newTestClient(t, fake)
	ctx := context.Background()
	require.NoError(t, client.Refresh(ctx))

	require.NoError(t, client.TransferPlayback(ctx, "T", true))
	require.NoError(t, client.Pause(ctx, "T"))
	require.NoError(t, client.Resume(ctx, "T"))

	muts := fake.Mutations()
	require.Len(t, muts, 3)

	assert.Equal(t, "/me/player", muts[0].Path)
	assert.JSONEq(t, `{"device_ids":["T"],"play":true}`, muts[0].Body)

	assert.Equal(t, "/me/player/pause", muts[1].Path)
	assert.Equal(t, "device_id=T", muts[1].Query)

	assert.Equal(t, "/me/player/play", muts[2].Path)
	assert.Equal(t, "device_id=T", muts[2].Query)
}

func TestAPIError(t *testing.T) {
	fake := testutil.NewFakeSpotify(t)
	fake.Status["PUT /me/player"] = http.StatusNotFound
	client, _ := newTestClient(t, fake)
	require.NoError(t, client.Refresh(context.Background()))

	err := client.TransferPlayback(context.Background(), "T", true)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "got %v", err)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, http.MethodPut, apiErr.Method)
	assert.Equal(t, "/me/player", apiErr.Path)
	assert.Contains(t, apiErr.Body, "Forced failure")
	assert.Equal(t, "spotify error: PUT /me/player: status 404: Forced failure", apiErr.Error())
}

func TestAPIErrorPlainBody(t *testing.T) {
	err := &APIError{Method: "GET", Path: "/me/player", Status: 502, Body: "Bad Gateway\n"}
	assert.Equal(t, "spotify error: GET /me/player: status 502: Bad Gateway", err.Error())

	err = &APIError{Method: "GET", Path: "/me/player", Status: 500}
	assert.Equal(t, "spotify error: GET /me/player: status 500", err.Error())
}

func TestOAuthConfigDefaults(t *testing.T) {
	cfg := OAuthConfig(Config{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost/cb"})

	assert.Equal(t, "https://accounts.spotify.com/authorize", cfg.Endpoint.AuthURL)
	assert.Equal(t, "https://accounts.spotify.com/api/token", cfg.Endpoint.TokenURL)
	assert.Equal(t, "http://localhost/cb", cfg.RedirectURL)
	assert.ElementsMatch(t, []string{
		"user-read-playback-state",
		"user-modify-playback-state",
		"user-read-currently-playing",
	}, cfg.Scopes)
}
