// Package firetv brings an Amazon Fire TV to a ready state over ADB.
//
// The controller connects adb to <ip>:5555, wakes the screen and launches the
// Spotify TV application. Screen state is probed from `dumpsys power`:
//
//	ASLEEP --(KEYCODE_WAKEUP, probe)--> AWAKE
//
// The wake key event carries no acknowledgement, so EnsureAwake polls and
// returns whatever the last probe observed.
package firetv
