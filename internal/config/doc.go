// Package config manages the per-user tool configuration file
// (~/.pkgsmith/config.yaml) through Viper, with PKGSMITH_* environment
// overrides. Configuration only carries invocation defaults (extra
// filter rules, component selection); registry contents never persist
// across invocations.
package config
