package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is one call received by FakeSpotify.
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Auth   string
}

// FakeSpotify serves the Web API endpoints and the token endpoint the
// launcher uses. Zero-value fields give an idle account with no devices.
type FakeSpotify struct {
	Server *httptest.Server

	mu sync.Mutex
	// Playback is the raw /me/player body; empty answers 204.
	Playback string
	// Devices is the raw /me/player/devices body.
	Devices string
	// RefreshStatus overrides the token endpoint's status when non-zero.
	RefreshStatus int
	// Status overrides the status for "METHOD /path" keys.
	Status map[string]int

	requests  []RecordedRequest
	refreshes int
	access    string
}

// NewFakeSpotify starts a fake server that is closed when the test ends.
func NewFakeSpotify(t *testing.T) *FakeSpotify {
	t.Helper()
	f := &FakeSpotify{
		Devices: `{"devices":[]}`,
		Status:  map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// BaseURL is the Web API root.
func (f *FakeSpotify) BaseURL() string { return f.Server.URL + "/v1" }

// TokenURL is the OAuth token endpoint.
func (f *FakeSpotify) TokenURL() string { return f.Server.URL + "/api/token" }

// SetPlayback sets the /me/player body.
func (f *FakeSpotify) SetPlayback(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Playback = body
}

// SetDevices sets the /me/player/devices body.
func (f *FakeSpotify) SetDevices(body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Devices = body
}

// Requests returns the Web API calls received so far.
func (f *FakeSpotify) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Mutations returns the PUT calls received so far.
func (f *FakeSpotify) Mutations() []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == http.MethodPut {
			out = append(out, r)
		}
	}
	return out
}

// Refreshes returns how many refresh-token grants were served.
func (f *FakeSpotify) Refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

// AccessToken returns the most recently issued access token.
func (f *FakeSpotify) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.access
}

func (f *FakeSpotify) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/api/token" {
		f.serveToken(w, r)
		return
	}

	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, "/v1")
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
		Auth:   r.Header.Get("Authorization"),
	})

	if f.access == "" || r.Header.Get("Authorization") != "Bearer "+f.access {
		writeJSON(w, http.StatusUnauthorized, `{"error":{"status":401,"message":"Invalid access token"}}`)
		return
	}

	key := r.Method + " " + path
	if status, ok := f.Status[key]; ok {
		writeJSON(w, status, fmt.Sprintf(`{"error":{"status":%d,"message":"Forced failure"}}`, status))
		return
	}

	switch key {
	case "GET /me/player":
		if f.Playback == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, f.Playback)
	case "GET /me/player/devices":
		writeJSON(w, http.StatusOK, f.Devices)
	case "PUT /me/player", "PUT /me/player/pause", "PUT /me/player/play":
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusNotFound, `{"error":{"status":404,"message":"Service not found"}}`)
	}
}

func (f *FakeSpotify) serveToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "refresh_token" {
		writeJSON(w, http.StatusBadRequest, `{"error":"unsupported_grant_type"}`)
		return
	}
	if f.RefreshStatus != 0 && f.RefreshStatus != http.StatusOK {
		writeJSON(w, f.RefreshStatus, `{"error":"invalid_grant","error_description":"Refresh token revoked"}`)
		return
	}

	f.refreshes++
	f.access = fmt.Sprintf("fresh-access-%d", f.refreshes)
	payload, _ := json.Marshal(map[string]any{
		"access_token": f.access,
		"token_type":   "Bearer",
		"expires_in":   3600,
		"scope":        "user-read-playback-state user-modify-playback-state user-read-currently-playing",
	})
	writeJSON(w, http.StatusOK, string(payload))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// WriteTokenCache writes a cache file in the launcher's format.
func WriteTokenCache(t *testing.T, path string) {
	t.Helper()
	const cache = `{
  "access_token": "stale-access",
  "refresh_token": "refresh-1",
  "scope": ["user-read-playback-state", "user-modify-playback-state", "user-read-currently-playing"],
  "expires_at": 1700000000,
  "token_type": "Bearer"
}`
	if err := writeFile(path, cache); err != nil {
		t.Fatalf("write token cache: %v", err)
	}
}
