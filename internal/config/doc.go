// Package config provides configuration loading, merging, and validation
// facilities for the finance keeper.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for non-zero fields):
//  1. Environment variables (FINKEEPER_ prefix)
//  2. Command-line global flags
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry point is [GetClientConfig].
package config
