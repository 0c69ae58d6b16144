// Package builtin provides the functions available inside {{...}} templates.
//
// Available functions:
//   - uuid(): random UUID v4
//   - now(): current UTC time in RFC 3339
//   - timestamp(), timestampMs(): Unix time in seconds or milliseconds
//   - date(layout): current UTC date, Go layout, default 2006-01-02
//   - random(min, max): random integer in the inclusive range
//   - randomString(length): random alphanumeric string
//   - base64(value): base64 encode a string
//
// Templates call them as {{uuid()}} in URLs, header values and body pairs.
package builtin
