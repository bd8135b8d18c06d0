// Command spotifytv-auth performs the one-time Spotify authorization that
// spotifytv depends on.
//
// It prints the Spotify consent URL, serves the configured redirect URI on
// its loopback address, exchanges the returned code and writes the token
// cache. Register the same redirect URI, with an explicit port, in the
// Spotify developer dashboard:
//
//	RSPOTIFY_REDIRECT_URI=http://127.0.0.1:8888/callback spotifytv-auth
//
// It reads the same RSPOTIFY_* and SPOTIFYTV_TOKEN_CACHE settings as
// spotifytv.
package main
