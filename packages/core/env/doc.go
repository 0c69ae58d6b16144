// Package env handles template variables for httpie requests.
//
// It provides functionality for:
//   - Loading .env files
//   - Variable interpolation using {{variable}} syntax
//   - Process environment lookups using {{$NAME}}
//   - Built-in function evaluation ({{uuid()}}, {{timestamp()}}, ...)
package env
