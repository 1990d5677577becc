// Package config handles loading and parsing of configuration from YAML files,
// environment variables, and the command line. It defines the run configuration
// including the target deployment, output key names, retry/backoff tunables,
// and probe timeouts.
package config
