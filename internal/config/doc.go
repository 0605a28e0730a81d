// Package config loads the plotstore server configuration.
//
// A config file is YAML. It is decoded on top of Default, so every key is
// optional, and then checked against an embedded CUE schema. Unknown keys
// are rejected.
//
//	host: 0.0.0.0
//	port: 8288
//	use_token: true
//	cors: true
//	redraw_timeout: 2s
//	history:
//	  enabled: true
//	  path: plots.db
package config
