// Package config holds the explicit configuration of the severn CLI.
//
// A Config is assembled once at startup: Default supplies the baseline,
// Load overlays a YAML file and LoadEnv applies credentials from dotenv
// files and the process environment. Library packages never read the
// environment themselves; they receive options derived from a Config.
package config
