// Package log provides secure logging functionality with automatic
// sanitization of sensitive information, built on top of the standard
// slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (API keys, tokens, cookies)
//   - Masking of credential query parameters inside logged URLs
//   - Configurable log levels with verbose mode support
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in
// log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (passwords, tokens, keys)
//   - api_key and token query parameters embedded in proxy request URLs
//
// Even in verbose mode, sensitive values are masked to prevent
// accidental exposure of the scraping-proxy or enrichment API keys in
// logs that may be shared or stored.
//
// # Usage
//
//	// Create a secure logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("proxy request",
//	    "url", "https://api.example.com?api_key=abc123&url=...", // key is masked
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
