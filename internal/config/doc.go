// Package config loads mcpdock's own configuration via Viper.
//
// Settings come from, in order of precedence: MCPDOCK_* environment
// variables, a config.yaml in the current directory, and config.yaml
// under the app config directory. Everything has a default; mcpdock runs
// fine with no config file at all.
//
// This is mcpdock's configuration, not the agents': agent config files
// are owned by the connector packages.
package config
