/*
Package launcher drives one end-to-end invocation: connect to the Fire TV,
wake it, open Spotify on it, then move the user's playback session there.

Steps run strictly in order and any error aborts the run. The only soft step
is waking the screen: an asleep TV still accepts the Spotify transfer.

	connect_tv -> ensure_awake -> open_spotify -> spotify_client ->
	refresh_token -> transfer

Progress lines go to the configured output (stdout in the binary); diagnostic
logs carry the run's ID.
*/
package launcher
