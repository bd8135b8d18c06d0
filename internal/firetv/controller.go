package firetv

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/GriffinCanCode/spotifytv/internal/adb"
	"go.uber.org/zap"
)

const (
	// DefaultPort is the ADB-over-TCP port Fire TV listens on.
	DefaultPort = 5555

	// DefaultAppPackage is the Spotify application for Android TV.
	DefaultAppPackage = "com.spotify.tv.android"

	// DefaultWakeTries bounds EnsureAwake when callers have no preference.
	DefaultWakeTries = 4

	// DefaultWakeInterval is the pause after a wake key event before the
	// screen is probed again.
	DefaultWakeInterval = 800 * time.Millisecond

	// keycodeWakeup is Android's KEYCODE_WAKEUP.
	keycodeWakeup = 224
)

// ConnectError reports that the TV endpoint never appeared in `adb devices`.
type ConnectError struct {
	Endpoint string
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect failed: %s not listed by adb devices", e.Endpoint)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Controller drives a Fire TV over ADB.
type Controller struct {
	adb          adb.Runner
	logger       *zap.Logger
	port         int
	appPackage   string
	wakeInterval time.Duration
	sleep        SleepFunc
	onWake       func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPort overrides the ADB TCP port.
func WithPort(port int) Option {
	return func(c *Controller) {
		if port > 0 {
			c.port = port
		}
	}
}

// WithAppPackage overrides the package launched by OpenSpotify.
func WithAppPackage(pkg string) Option {
	return func(c *Controller) {
		if strings.TrimSpace(pkg) != "" {
			c.appPackage = pkg
		}
	}
}

// WithWakeInterval overrides the pause between wake probes.
func WithWakeInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.wakeInterval = d
		}
	}
}

// WithSleeper replaces the function used to pause between wake probes.
func WithSleeper(sleep SleepFunc) Option {
	return func(c *Controller) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithWakeObserver registers fn to be called after every wake key event.
func WithWakeObserver(fn func()) Option {
	return func(c *Controller) {
		c.onWake = fn
	}
}

// NewController creates a Controller that issues commands through runner.
func NewController(runner adb.Runner, opts ...Option) *Controller {
	c := &Controller{
		adb:          runner,
		logger:       zap.NewNop(),
		port:         DefaultPort,
		appPackage:   DefaultAppPackage,
		wakeInterval: DefaultWakeInterval,
		sleep:        sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the ADB endpoint for ip, "<ip>:<port>".
func (c *Controller) Endpoint(ip string) string {
	return ip + ":" + strconv.Itoa(c.port)
}

// Connect makes sure adb has a TCP connection to the TV. It is a no-op when
// the endpoint is already listed by `adb devices`.
func (c *Controller) Connect(ctx context.Context, ip string) error {
	endpoint := c.Endpoint(ip)

	devices, err := c.adb.Run(ctx, "devices")
	if err != nil {
		return err
	}
	if strings.Contains(devices, endpoint) {
		c.logger.Debug("TV already connected", zap.String("endpoint", endpoint))
		return nil
	}

	c.logger.Info("Connecting to TV", zap.String("endpoint", endpoint))
	if _, err := c.adb.Run(ctx, "connect", endpoint); err != nil {
		return err
	}

	devices, err = c.adb.Run(ctx, "devices")
	if err != nil {
		return err
	}
	if !strings.Contains(devices, endpoint) {
		return &ConnectError{Endpoint: endpoint}
	}
	return nil
}

// ScreenIsOn reports whether the TV screen is awake.
func (c *Controller) ScreenIsOn(ctx context.Context) (bool, error) {
	dump, err := c.adb.Run(ctx, "shell", "dumpsys", "power")
	if err != nil {
		return false, err
	}
	return ParseScreenState(dump) == Awake, nil
}

// EnsureAwake sends wake key events until the screen reports awake, at most
// maxTries times, then reports the state seen by a final probe. The key event
// is fire-and-forget, so the result is observed rather than assumed.
// A false result is not an error.
func (c *Controller) EnsureAwake(ctx context.Context, maxTries int) (bool, error) {
	for try := 1; try <= maxTries; try++ {
		on, err := c.ScreenIsOn(ctx)
		if err != nil {
			return false, err
		}
		if on {
			c.logger.Debug("Screen awake", zap.Int("probe", try))
			return true, nil
		}

		c.logger.Info("Screen asleep, sending wake key", zap.Int("try", try), zap.Int("max_tries", maxTries))
		if _, err := c.adb.Run(ctx, "shell", "input", "keyevent", strconv.Itoa(keycodeWakeup)); err != nil {
			return false, err
		}
		if c.onWake != nil {
			c.onWake()
		}

		// No pause after the last key event; the final probe follows directly.
		if try < maxTries {
			if err := c.sleep(ctx, c.wakeInterval); err != nil {
				return false, err
			}
		}
	}
	return c.ScreenIsOn(ctx)
}

// OpenSpotify launches the Spotify TV application.
func (c *Controller) OpenSpotify(ctx context.Context) error {
	c.logger.Info("Launching app", zap.String("package", c.appPackage))
	_, err := c.adb.Run(ctx, "shell", "monkey", "-p", c.appPackage, "1")
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
