package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/GriffinCanCode/spotifytv/internal/shared/paths"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DotEnvFile is read from the working directory before the environment is
// processed. Variables already present in the environment win.
const DotEnvFile = ".env"

// Required keys, in the order they are checked.
const (
	KeyClientID     = "RSPOTIFY_CLIENT_ID"
	KeyClientSecret = "RSPOTIFY_CLIENT_SECRET"
	KeyRedirectURI  = "RSPOTIFY_REDIRECT_URI"
	KeyFireTVIP     = "FIRETV_IP"
)

// Config holds all launcher configuration.
type Config struct {
	Spotify SpotifyConfig
	FireTV  FireTVConfig
	Device  DeviceConfig
	Logging LogConfig
	Metrics MetricsConfig
}

// SpotifyConfig holds the OAuth client registration and token cache location.
type SpotifyConfig struct {
	ClientID     string `envconfig:"RSPOTIFY_CLIENT_ID"`
	ClientSecret string `envconfig:"RSPOTIFY_CLIENT_SECRET"`
	RedirectURI  string `envconfig:"RSPOTIFY_REDIRECT_URI"`
	TokenCache   string `envconfig:"SPOTIFYTV_TOKEN_CACHE"`
}

// FireTVConfig holds ADB and TV settings.
type FireTVConfig struct {
	IP           string        `envconfig:"FIRETV_IP"`
	ADBPath      string        `envconfig:"ADB_PATH" default:"adb"`
	ADBPort      int           `envconfig:"FIRETV_ADB_PORT" default:"5555"`
	AppPackage   string        `envconfig:"FIRETV_APP_PACKAGE" default:"com.spotify.tv.android"`
	WakeTries    int           `envconfig:"FIRETV_WAKE_TRIES" default:"4"`
	WakeInterval time.Duration `envconfig:"FIRETV_WAKE_INTERVAL" default:"800ms"`
}

// DeviceConfig controls how the target Spotify Connect device is recognised.
type DeviceConfig struct {
	Match    string `envconfig:"SPOTIFYTV_DEVICE_MATCH" default:"TV"`
	FoldCase bool   `envconfig:"SPOTIFYTV_DEVICE_MATCH_FOLD" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig holds the optional run metrics export.
type MetricsConfig struct {
	File string `envconfig:"SPOTIFYTV_METRICS_FILE"`
}

// MissingConfigError names the first required setting that is absent or empty.
type MissingConfigError struct {
	Name string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing config: %s is not set", e.Name)
}

// Endpoint returns the ADB TCP endpoint of the TV, "<ip>:<port>".
func (c FireTVConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", c.IP, c.ADBPort)
}

// Load hydrates the environment from .env (when present) and reads the
// configuration from it.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	path, err := ResolveTokenCache(cfg.Spotify.TokenCache)
	if err != nil {
		return nil, err
	}
	cfg.Spotify.TokenCache = path

	return &cfg, nil
}

// LoadSpotify reads only the Spotify settings. The authorization command
// uses it, so FIRETV_IP need not be set.
func LoadSpotify() (*SpotifyConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	var cfg SpotifyConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	path, err := ResolveTokenCache(cfg.TokenCache)
	if err != nil {
		return nil, err
	}
	cfg.TokenCache = path

	return &cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", DotEnvFile, err)
	}
	return nil
}

func (c *SpotifyConfig) validate() error {
	return requireAll(
		setting{KeyClientID, c.ClientID},
		setting{KeyClientSecret, c.ClientSecret},
		setting{KeyRedirectURI, c.RedirectURI},
	)
}

type setting struct {
	key   string
	value string
}

// requireAll returns a *MissingConfigError for the first empty setting.
func requireAll(settings ...setting) error {
	for _, s := range settings {
		if strings.TrimSpace(s.value) == "" {
			return &MissingConfigError{Name: s.key}
		}
	}
	return nil
}

func (c *Config) validate() error {
	if err := c.Spotify.validate(); err != nil {
		return err
	}
	if err := requireAll(setting{KeyFireTVIP, c.FireTV.IP}); err != nil {
		return err
	}

	if c.FireTV.WakeTries < 1 {
		return fmt.Errorf("FIRETV_WAKE_TRIES must be at least 1, got %d", c.FireTV.WakeTries)
	}
	if c.FireTV.WakeInterval < 0 {
		return fmt.Errorf("FIRETV_WAKE_INTERVAL must not be negative, got %s", c.FireTV.WakeInterval)
	}
	if c.FireTV.ADBPort <= 0 || c.FireTV.ADBPort > 65535 {
		return fmt.Errorf("FIRETV_ADB_PORT out of range: %d", c.FireTV.ADBPort)
	}
	return nil
}

// ResolveTokenCache turns the configured cache path into an absolute one.
// An empty value selects <user config dir>/spotifytv/token.json.
func ResolveTokenCache(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return paths.DefaultTokenCache()
	}
	return paths.Absolute(trimmed)
}
