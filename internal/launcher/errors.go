package launcher

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/spotifytv/internal/adb"
	"github.com/GriffinCanCode/spotifytv/internal/firetv"
	"github.com/GriffinCanCode/spotifytv/internal/infrastructure/config"
	"github.com/GriffinCanCode/spotifytv/internal/spotify"
	"github.com/GriffinCanCode/spotifytv/internal/transfer"
)

// ErrorKind classifies a pipeline error for logs and metrics.
func ErrorKind(err error) string {
	var (
		missing   *config.MissingConfigError
		adbErr    *adb.Error
		connErr   *firetv.ConnectError
		corrupt   *spotify.CacheCorruptError
		refresh   *spotify.TokenRefreshError
		apiErr    *spotify.APIError
		noIDError *transfer.TargetNoIDError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &missing):
		return "missing_config"
	case errors.As(err, &adbErr):
		return "adb_failure"
	case errors.As(err, &connErr):
		return "connect_failed"
	case errors.Is(err, spotify.ErrNoCredentials):
		return "no_credentials"
	case errors.As(err, &corrupt):
		return "cache_corrupt"
	case errors.As(err, &refresh):
		return "token_refresh_failed"
	case errors.As(err, &apiErr):
		return "spotify_error"
	case errors.Is(err, transfer.ErrNoTargetDevice):
		return "no_target_device"
	case errors.As(err, &noIDError):
		return "target_has_no_id"
	default:
		return "other"
	}
}
