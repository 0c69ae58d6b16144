// Package http provides the HTTP client used by the httpie commands.
//
// It wraps the standard library's http package with:
//   - Fixed default headers sent with every request
//   - Configurable timeouts, proxy and TLS verification
//   - Redirect handling
//   - URL validation before any network activity
//   - Fully read responses with ordered header access
package http
