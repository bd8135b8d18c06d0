package spotify

import (
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

// Scopes requested by the authorization flow.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
}

// Device is a Spotify Connect device as listed by the Web API.
type Device struct {
	// ID is empty when Spotify reports no identifier; such devices cannot
	// be targeted.
	ID         string
	Name       string
	Type       string
	Active     bool
	Restricted bool
}

// HasID reports whether the device can be targeted by playback calls.
func (d Device) HasID() bool {
	return d.ID != ""
}

// Playback is the current playback snapshot.
type Playback struct {
	// Device is nil when Spotify reports no device for the session.
	Device    *Device
	IsPlaying bool
}

// DeviceID returns the active device identifier, or "" if none.
func (p *Playback) DeviceID() string {
	if p == nil || p.Device == nil {
		return ""
	}
	return p.Device.ID
}

type deviceJSON struct {
	ID           *string `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	IsActive     bool    `json:"is_active"`
	IsRestricted bool    `json:"is_restricted"`
}

func (d deviceJSON) device() Device {
	dev := Device{
		Name:       d.Name,
		Type:       d.Type,
		Active:     d.IsActive,
		Restricted: d.IsRestricted,
	}
	if d.ID != nil {
		dev.ID = *d.ID
	}
	return dev
}

type playbackJSON struct {
	Device    *deviceJSON `json:"device"`
	IsPlaying bool        `json:"is_playing"`
}

type devicesJSON struct {
	Devices []deviceJSON `json:"devices"`
}

type transferJSON struct {
	DeviceIDs []string `json:"device_ids"`
	Play      bool     `json:"play"`
}
