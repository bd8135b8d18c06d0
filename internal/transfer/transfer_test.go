package transfer

import (
	"context"
	"errors"
	"testing"

	"github.com/GriffinCanCode/spotifytv/internal/spotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPlayer struct {
	mock.Mock
}

func (m *mockPlayer) CurrentPlayback(ctx context.Context) (*spotify.Playback, error) {
	ret := m.Called()
	pb, _ := ret.Get(0).(*spotify.Playback)
	return pb, ret.Error(1)
}

func (m *mockPlayer) Devices(ctx context.Context) ([]spotify.Device, error) {
	ret := m.Called()
	devices, _ := ret.Get(0).([]spotify.Device)
	return devices, ret.Error(1)
}

func (m *mockPlayer) TransferPlayback(ctx context.Context, deviceID string, play bool) error {
	return m.Called(deviceID, play).Error(0)
}

func (m *mockPlayer) Pause(ctx context.Context, deviceID string) error {
	return m.Called(deviceID).Error(0)
}

func (m *mockPlayer) Resume(ctx context.Context, deviceID string) error {
	return m.Called(deviceID).Error(0)
}

var livingRoom = []spotify.Device{{ID: "T", Name: "Living Room TV", Type: "TV"}}

func playing(id string, isPlaying bool) *spotify.Playback {
	return &spotify.Playback{Device: &spotify.Device{ID: id}, IsPlaying: isPlaying}
}

func TestDecideTable(t *testing.T) {
	tests := []struct {
		name     string
		playback *spotify.Playback
		want     Decision
	}{
		{"no session", nil, TransferAndPlay},
		{"target playing", playing("T", true), PauseOnTarget},
		{"target paused", playing("T", false), ResumeOnTarget},
		{"other device playing", playing("P", true), TransferAndPlay},
		{"other device paused", playing("P", false), TransferAndPlay},
		{"session without device", &spotify.Playback{IsPlaying: true}, TransferAndPlay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Decide(tt.playback, livingRoom, NameMatcher{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.Decision)
			assert.Equal(t, "T", plan.Target.ID)
		})
	}
}

func TestSelectTargetFirstMatchWins(t *testing.T) {
	devices := []spotify.Device{
		{Name: "Phone"},
		{ID: "A", Name: "TV-1"},
		{ID: "B", Name: "TV-2"},
	}

	target, err := SelectTarget(devices, NameMatcher{})
	require.NoError(t, err)
	assert.Equal(t, "A", target.ID)
}

func TestSelectTargetNoMatch(t *testing.T) {
	devices := []spotify.Device{{ID: "P", Name: "Phone"}, {ID: "L", Name: "Living Room tv"}}

	_, err := SelectTarget(devices, NameMatcher{})
	assert.ErrorIs(t, err, ErrNoTargetDevice)
}

func TestSelectTargetWithoutID(t *testing.T) {
	devices := []spotify.Device{{Name: "Kitchen TV"}, {ID: "B", Name: "Bedroom TV"}}

	_, err := SelectTarget(devices, NameMatcher{})

	var noID *TargetNoIDError
	require.True(t, errors.As(err, &noID))
	assert.Equal(t, "Kitchen TV", noID.Name)
}

func TestNameMatcher(t *testing.T) {
	assert.True(t, NameMatcher{}.Match("Living Room TV"))
	assert.False(t, NameMatcher{}.Match("Living Room tv"))
	assert.True(t, NameMatcher{FoldCase: true}.Match("Living Room tv"))
	assert.True(t, NameMatcher{Substring: "Shield"}.Match("NVIDIA Shield"))
	assert.False(t, NameMatcher{Substring: "shield"}.Match("NVIDIA Shield"))
	assert.True(t, NameMatcher{Substring: "shield", FoldCase: true}.Match("NVIDIA Shield"))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "Paused", PauseOnTarget.String())
	assert.Equal(t, "Resumed", ResumeOnTarget.String())
	assert.Equal(t, "Transferred", TransferAndPlay.String())
	assert.Equal(t, "Unknown", Decision(9).String())
}

func TestRunIssuesExactlyOneCall(t *testing.T) {
	tests := []struct {
		name     string
		playback *spotify.Playback
		expect   func(m *mockPlayer)
		want     Decision
	}{
		{
			name:     "pause",
			playback: playing("T", true),
			expect:   func(m *mockPlayer) { m.On("Pause", "T").Return(nil).Once() },
			want:     PauseOnTarget,
		},
		{
			name:     "resume",
			playback: playing("T", false),
			expect:   func(m *mockPlayer) { m.On("Resume", "T").Return(nil).Once() },
			want:     ResumeOnTarget,
		},
		{
			name:     "transfer",
			playback: playing("P", true),
			expect:   func(m *mockPlayer) { m.On("TransferPlayback", "T", true).Return(nil).Once() },
			want:     TransferAndPlay,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(mockPlayer)
			m.On("CurrentPlayback").Return(tt.playback, nil)
			m.On("Devices").Return(livingRoom, nil)
			tt.expect(m)

			plan, err := New(m, NameMatcher{}, nil).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.want, plan.Decision)
			m.AssertExpectations(t)
		})
	}
}

func TestRunNoTargetMakesNoPlaybackCall(t *testing.T) {
	m := new(mockPlayer)
	m.On("CurrentPlayback").Return(playing("P", true), nil)
	m.On("Devices").Return([]spotify.Device{{ID: "P", Name: "Phone"}}, nil)

	_, err := New(m, NameMatcher{}, nil).Run(context.Background())

	assert.ErrorIs(t, err, ErrNoTargetDevice)
	m.AssertNotCalled(t, "Pause", mock.Anything)
	m.AssertNotCalled(t, "Resume", mock.Anything)
	m.AssertNotCalled(t, "TransferPlayback", mock.Anything, mock.Anything)
}

func TestRunPropagatesErrors(t *testing.T) {
	apiErr := &spotify.APIError{Method: "GET", Path: "/me/player/devices", Status: 500}

	m := new(mockPlayer)
	m.On("CurrentPlayback").Return(nil, nil)
	m.On("Devices").Return(nil, apiErr)

	_, err := New(m, NameMatcher{}, nil).Run(context.Background())

	var got *spotify.APIError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, 500, got.Status)
}

func TestRunReturnsPlanOnApplyFailure(t *testing.T) {
	m := new(mockPlayer)
	m.On("CurrentPlayback").Return(nil, nil)
	m.On("Devices").Return(livingRoom, nil)
	m.On("TransferPlayback", "T", true).Return(errors.New("boom"))

	plan, err := New(m, NameMatcher{}, nil).Run(context.Background())

	assert.EqualError(t, err, "boom")
	assert.Equal(t, TransferAndPlay, plan.Decision)
}
