// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON lines on stderr
//   - Development (LOG_DEV=true): colored console output
//
// Standard output is never used for logs; the launcher prints its
// user-facing progress lines there.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Connecting to TV", zap.String("endpoint", "192.168.1.20:5555"))
//	logger.Error("adb failed", zap.Error(err))
package logging
