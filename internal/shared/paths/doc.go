// Package paths resolves the per-user filesystem locations of the launcher.
//
// # Layout
//
//	<user config dir>/spotifytv/
//	  └── token.json   (OAuth token cache, mode 0600)
//
// # Usage
//
//	cache, err := paths.DefaultTokenCache()
//	abs, err := paths.Absolute("~/spotify/token.json")
package paths
