// Package capture selects a single value out of an HTTP response.
//
// Supported selectors:
//   - status: the response status code
//   - duration: round trip time in milliseconds
//   - header:<Name>: a response header value
//   - anything else: a gjson path into the JSON body
//
// The CLI uses it to print only part of a response with --path.
package capture
