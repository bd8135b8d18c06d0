package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/GriffinCanCode/spotifytv/internal/spotify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// callbackAddr returns the listen address and path of a loopback redirect
// URI. The port must be explicit.
func callbackAddr(redirectURI string) (addr, path string, err error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", "", fmt.Errorf("invalid redirect URI %q: %w", redirectURI, err)
	}
	if u.Scheme != "http" {
		return "", "", fmt.Errorf("redirect URI %q must use http on a local address", redirectURI)
	}
	if u.Port() == "" {
		return "", "", fmt.Errorf("redirect URI %q has no port", redirectURI)
	}
	path = u.Path
	if path == "" {
		path = "/"
	}
	return u.Host, path, nil
}

// newCallbackRouter serves the redirect URI path. The outcome of the first
// callback is sent on done.
func newCallbackRouter(path string, authz *spotify.Authorizer, logger *zap.Logger, done chan<- error) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET(path, func(c *gin.Context) {
		if msg := c.Query("error"); msg != "" {
			err := fmt.Errorf("authorization denied: %s", msg)
			c.String(http.StatusForbidden, "%v\n", err)
			notify(done, err)
			return
		}

		tok, err := authz.Complete(c.Request)
		if err != nil {
			logger.Warn("Callback failed", zap.Error(err))
			c.String(http.StatusForbidden, "Authorization failed: %v\n", err)
			notify(done, err)
			return
		}

		logger.Info("Token cached", zap.Strings("scopes", tok.Scopes), zap.Time("expires_at", tok.ExpiresAt))
		c.String(http.StatusOK, "Authorized. You can close this tab.\n")
		notify(done, nil)
	})

	return router
}

func notify(done chan<- error, err error) {
	select {
	case done <- err:
	default:
	}
}
