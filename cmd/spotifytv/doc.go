// Command spotifytv wakes an Amazon Fire TV over ADB, opens Spotify on it and
// moves the current Spotify session to the TV.
//
// It takes no arguments. Running it again toggles playback: if the TV is
// already the active device and playing it pauses, and if paused it resumes.
//
// Configuration comes from the environment, optionally seeded by a .env file
// in the working directory:
//
//	RSPOTIFY_CLIENT_ID       Spotify app client ID (required)
//	RSPOTIFY_CLIENT_SECRET   Spotify app client secret (required)
//	RSPOTIFY_REDIRECT_URI    redirect URI registered for the app (required)
//	FIRETV_IP                TV address on the LAN (required)
//	SPOTIFYTV_TOKEN_CACHE    token cache path
//	                         (default <user config dir>/spotifytv/token.json)
//	ADB_PATH                 adb executable (default adb)
//	FIRETV_ADB_PORT          ADB TCP port (default 5555)
//	FIRETV_WAKE_TRIES        wake attempts (default 4)
//	FIRETV_WAKE_INTERVAL     pause between attempts (default 800ms)
//	SPOTIFYTV_DEVICE_MATCH   substring naming the TV device (default TV)
//	SPOTIFYTV_DEVICE_MATCH_FOLD  match case-insensitively
//	SPOTIFYTV_METRICS_FILE   write run metrics in textfile format
//	LOG_LEVEL, LOG_DEV       logging to stderr
//
// The token cache must exist; create it once with spotifytv-auth.
//
// Exit status is 0 on success and 1 on any error.
package main
