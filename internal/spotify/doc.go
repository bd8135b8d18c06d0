/*
Package spotify is a thin facade over the Spotify Web API endpoints the
launcher needs, plus the on-disk OAuth token cache that authenticates it.

# Token lifecycle

The cache is written once by the interactive authorization command and is
read on every launch. NewClient loads it, and Refresh exchanges the refresh
token for a fresh access token before any API call is made. Every token the
client obtains afterwards is written back to the cache.

	store := spotify.NewTokenStore(path)
	client, err := spotify.NewClient(ctx, spotify.Config{...}, store, logger)
	if err != nil {
	    return err // NoCredentialsError or CacheCorruptError
	}
	if err := client.Refresh(ctx); err != nil {
	    return err // TokenRefreshError
	}

# Endpoints

	GET /me/player?additional_types=episode   CurrentPlayback
	GET /me/player/devices                    Devices
	PUT /me/player                            TransferPlayback
	PUT /me/player/pause?device_id=           Pause
	PUT /me/player/play?device_id=            Resume

Non-2xx responses surface as *APIError carrying the status and body.
*/
package spotify
