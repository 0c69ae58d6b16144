// Package cmd implements the httpie CLI commands using Cobra.
//
// Available commands:
//   - get: Send a GET request and print the response
//   - post: Send a POST request with a JSON body built from key=value pairs
//   - version: Show httpie version information
//   - completion: Generate shell completion scripts
//
// Persistent flags cover configuration files, template variables, network
// settings and output formatting.
package cmd
