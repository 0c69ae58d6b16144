// Package output renders HTTP exchanges for the terminal or for machines.
//
// Supported output formats:
//   - Console: status line, coloured header block and a body that is
//     re-indented when the response declares a JSON content type
//   - JSON: one JSON document describing the request and the response
//
// Both implement the Formatter interface.
package output
