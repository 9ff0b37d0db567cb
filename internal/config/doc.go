// Package config provides the option store for editor settings.
//
// The config package manages the named options that control command
// behavior (timeoutlen, ignorecase, wrapscan, and so on), loads option
// values and key mappings from configuration files, and notifies
// observers when an option changes.
//
// # Options
//
// Every option has a canonical name, an optional short alias, a type,
// and a default. The built-in set mirrors the options the command
// language consults; hosts may register additional options before
// loading files. Lookups accept either the canonical name or the
// alias, so "ignorecase" and "ic" address the same option.
//
// # Sources
//
// Option values come from three places, applied in order:
//
//  1. Built-in defaults
//  2. Configuration files (TOML or YAML, chosen by extension)
//  3. MODALKIT_* environment variables
//
// Later sources override earlier ones. Explicit Set calls (for example
// from a :set command) override everything.
//
// # Configuration Files
//
// TOML is the primary format:
//
//	[options]
//	ignorecase = true
//	timeoutlen = 500
//
//	[[mappings]]
//	modes = ["insert"]
//	from = "jj"
//	to = "<Esc>"
//	noremap = true
//
// The same structure is accepted as YAML. Parsed mappings are returned
// to the caller rather than interpreted here; the key-mapping layer
// owns their meaning.
//
// # Live Reload
//
// Watcher monitors configuration files with fsnotify and reapplies
// them when they change. Observers registered on the Store see each
// resulting option change.
package config
