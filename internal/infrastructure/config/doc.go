// Package config provides 12-factor configuration for the launcher.
//
// Values come from the process environment. A .env file in the working
// directory (KEY=VALUE lines, # comments) is loaded first with godotenv and
// never overrides variables that are already set.
//
// Required, checked in this order:
//   - RSPOTIFY_CLIENT_ID, RSPOTIFY_CLIENT_SECRET, RSPOTIFY_REDIRECT_URI
//   - FIRETV_IP
//
// Optional:
//   - SPOTIFYTV_TOKEN_CACHE (default <os.UserConfigDir>/spotifytv/token.json)
//   - ADB_PATH, FIRETV_ADB_PORT, FIRETV_APP_PACKAGE
//   - FIRETV_WAKE_TRIES, FIRETV_WAKE_INTERVAL
//   - SPOTIFYTV_DEVICE_MATCH, SPOTIFYTV_DEVICE_MATCH_FOLD
//   - SPOTIFYTV_METRICS_FILE
//   - LOG_LEVEL, LOG_DEV
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Println(cfg.FireTV.Endpoint()) // 192.168.1.20:5555
package config
