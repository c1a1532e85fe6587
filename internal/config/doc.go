// Package config loads paramedit configuration from layered sources.
//
// Configuration is merged in priority order: built-in defaults, the global
// config directory (~/.config/paramedit), a project-local
// paramedit.{json,jsonc,yaml} file, an explicit PARAMEDIT_CONFIG file, and
// finally PARAMEDIT_* environment variables. JSON files may contain JSONC
// comments and trailing commas.
//
// Watch observes the config directories with fsnotify and publishes a
// config.reloaded event when a config file changes.
package config
