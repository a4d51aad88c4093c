// Package config provides layered configuration for the browser.
//
// Configuration is resolved in three layers, later layers winning:
//  1. Built-in defaults (800x600 viewport, local start page)
//  2. An optional TOML profile named by BROWSER_PROFILE
//  3. Environment variables
//
// Command line flags in cmd/browser override the result.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("viewport %dx%d\n", cfg.Viewport.Width, cfg.Viewport.Height)
//
// Environment Variables:
//   - BROWSER_START_PAGE, VIEWPORT_WIDTH, VIEWPORT_HEIGHT
//   - USER_AGENT, DIAL_TIMEOUT, REQUESTS_PER_SECOND, TLS_INSECURE
//   - BREAKER_THRESHOLD, BREAKER_COOLDOWN
//   - LOG_LEVEL, LOG_DEV
//
// Profile example:
//
//	start_page = "https://example.org/"
//
//	[viewport]
//	width = 1024
//	height = 768
//
//	[transport]
//	dial_timeout = "5s"
package config
