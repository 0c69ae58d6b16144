// Package config handles configuration loading and management for httpie.
//
// It provides functionality for:
//   - Loading configuration from .httpie.json, .httpie.jsonc, .httpie.yaml or
//     .httpie.yml in the working directory or the user config directory
//   - Comment-tolerant JSON and YAML formats
//   - Default configuration values and CLI overrides via Merge
package config
