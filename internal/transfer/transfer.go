// Package transfer decides where the user's Spotify session should go and
// issues the single playback call that gets it there.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/GriffinCanCode/spotifytv/internal/spotify"
	"go.uber.org/zap"
)

// ErrNoTargetDevice means no listed device matched the target predicate.
var ErrNoTargetDevice = errors.New("no target device: no Spotify device name matches")

// TargetNoIDError means the matched device has no identifier to address.
type TargetNoIDError struct {
	Name string
}

func (e *TargetNoIDError) Error() string {
	return fmt.Sprintf("target has no id: device %q", e.Name)
}

// DefaultMatch is the substring that identifies the TV among the user's
// devices.
const DefaultMatch = "TV"

// NameMatcher selects the target device by name. The zero value matches
// DefaultMatch case-sensitively.
type NameMatcher struct {
	Substring string
	FoldCase  bool
}

// Match reports whether name identifies the target.
func (m NameMatcher) Match(name string) bool {
	sub := m.Substring
	if sub == "" {
		sub = DefaultMatch
	}
	if m.FoldCase {
		return strings.Contains(strings.ToLower(name), strings.ToLower(sub))
	}
	return strings.Contains(name, sub)
}

// Decision is the playback call chosen for the target.
type Decision int

const (
	TransferAndPlay Decision = iota
	PauseOnTarget
	ResumeOnTarget
)

// String returns the user-facing outcome of the decision.
func (d Decision) String() string {
	switch d {
	case PauseOnTarget:
		return "Paused"
	case ResumeOnTarget:
		return "Resumed"
	case TransferAndPlay:
		return "Transferred"
	default:
		return "Unknown"
	}
}

// Plan is a decision bound to its target device.
type Plan struct {
	Decision        Decision
	Target          spotify.Device
	CurrentDeviceID string
}

// SelectTarget returns the first device, in API order, whose name matches.
func SelectTarget(devices []spotify.Device, match NameMatcher) (spotify.Device, error) {
	for _, d := range devices {
		if !match.Match(d.Name) {
			continue
		}
		if !d.HasID() {
			return spotify.Device{}, &TargetNoIDError{Name: d.Name}
		}
		return d, nil
	}
	return spotify.Device{}, ErrNoTargetDevice
}

// Decide picks the playback call for the given snapshot, which may be nil.
func Decide(playback *spotify.Playback, devices []spotify.Device, match NameMatcher) (Plan, error) {
	target, err := SelectTarget(devices, match)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Decision:        TransferAndPlay,
		Target:          target,
		CurrentDeviceID: playback.DeviceID(),
	}
	if plan.CurrentDeviceID == target.ID {
		if playback.IsPlaying {
			plan.Decision = PauseOnTarget
		} else {
			plan.Decision = ResumeOnTarget
		}
	}
	return plan, nil
}

// Player is the subset of the Spotify client the transfer needs.
type Player interface {
	CurrentPlayback(ctx context.Context) (*spotify.Playback, error)
	Devices(ctx context.Context) ([]spotify.Device, error)
	TransferPlayback(ctx context.Context, deviceID string, play bool) error
	Pause(ctx context.Context, deviceID string) error
	Resume(ctx context.Context, deviceID string) error
}

var _ Player = (*spotify.Client)(nil)

// Transfer reads the current state from player, decides, and applies the
// decision with exactly one playback call.
type Transfer struct {
	player Player
	match  NameMatcher
	logger *zap.Logger
}

// New creates a Transfer. A nil logger disables logging.
func New(player Player, match NameMatcher, logger *zap.Logger) *Transfer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transfer{player: player, match: match, logger: logger}
}

// Snapshot fetches the current playback and the device list.
func (t *Transfer) Snapshot(ctx context.Context) (*spotify.Playback, []spotify.Device, error) {
	playback, err := t.player.CurrentPlayback(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("current playback: %w", err)
	}
	devices, err := t.player.Devices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list devices: %w", err)
	}
	return playback, devices, nil
}

// Apply issues the playback call for plan.
func (t *Transfer) Apply(ctx context.Context, plan Plan) error {
	id := plan.Target.ID
	t.logger.Info("Applying decision",
		zap.Stringer("decision", plan.Decision),
		zap.String("target", plan.Target.Name),
		zap.String("target_id", id),
		zap.String("current_id", plan.CurrentDeviceID))

	switch plan.Decision {
	case PauseOnTarget:
		return t.player.Pause(ctx, id)
	case ResumeOnTarget:
		return t.player.Resume(ctx, id)
	default:
		return t.player.TransferPlayback(ctx, id, true)
	}
}

// Run snapshots, decides and applies. On a selection error no playback call
// is made.
func (t *Transfer) Run(ctx context.Context) (Plan, error) {
	playback, devices, err := t.Snapshot(ctx)
	if err != nil {
		return Plan{}, err
	}
	plan, err := Decide(playback, devices, t.match)
	if err != nil {
		return Plan{}, err
	}
	if err := t.Apply(ctx, plan); err != nil {
		return plan, err
	}
	return plan, nil
}
