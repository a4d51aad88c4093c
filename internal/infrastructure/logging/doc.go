// Package logging builds zap loggers for the browser.
//
// Two modes:
//   - Production: JSON lines on stderr
//   - Development: colored console output
//
// The transport logs connection, redirect and cache decisions at debug
// level. The browser session logs fetch failures, which render as a blank
// page, at warn level.
//
// Example Usage:
//
//	logger := logging.NewOrNop(logging.DefaultConfig())
//	logger.Warn("fetch failed", zap.String("url", raw), zap.Error(err))
package logging
