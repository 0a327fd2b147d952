// Package config loads snapline settings from a TOML file.
//
// A config file only needs the keys it changes; everything else keeps the
// value from [Default]:
//
//	adaptive = true
//
//	[alignment]
//	threshold = 6
//
//	[magnetism]
//	radius = 20
//	strength = 1.2
//
//	[spacing]
//	ladder = [4, 8, 16, 32]
//
//	[learning]
//	min_activations = 20
//
//	[store]
//	backend = "sqlite"
//
//	[server]
//	port = 7411
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
//
// The file is looked up in this order: an explicit path (the CLI's --config
// flag), the SNAPLINE_CONFIG environment variable, then
// $XDG_CONFIG_HOME/snapline/config.toml. A missing file at the default
// location is not an error.
package config
