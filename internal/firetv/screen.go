package firetv

import "strings"

// ScreenState is the TV's wakefulness as reported by dumpsys power.
type ScreenState int

const (
	Asleep ScreenState = iota
	Awake
)

// String returns the string representation of the state
func (s ScreenState) String() string {
	switch s {
	case Awake:
		return "awake"
	case Asleep:
		return "asleep"
	default:
		return "unknown"
	}
}

// awakeTokens are matched against the lowercased power dump. Dreaming
// (screensaver) counts as awake: the HDMI output is still live.
var awakeTokens = []string{
	"minteractive=true",
	"mscreenon=true",
	"state=on",
	"mwakefulness=awake",
	"mwakefulness=dreaming",
}

// ParseScreenState derives the screen state from `dumpsys power` output.
func ParseScreenState(dump string) ScreenState {
	lower := strings.ToLower(dump)
	for _, token := range awakeTokens {
		if strings.Contains(lower, token) {
			return Awake
		}
	}
	return Asleep
}
