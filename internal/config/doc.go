// Package config resolves the command line and PARBENCH_* environment
// variables into an AppConfig. Flags take precedence over the environment,
// which takes precedence over the defaults.
package config
