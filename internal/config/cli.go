// Package config holds the command line interface definition.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/commschamp/commsdslgen/internal/cmd"
	"github.com/commschamp/commsdslgen/internal/log"
)

// CLI is the root kong command. Flags may also come from JSON, YAML or TOML
// config files; explicit flags and environment variables win.
type CLI struct {
	ConfigFile string           `name:"config" help:"Path to a config file (JSON, YAML or TOML)" type:"path" env:"COMMSDSLGEN_CONFIG"`
	Log        log.Options      `embed:"" prefix:"log."`
	Version    kong.VersionFlag `help:"Print the generator version and exit"`

	Generate cmd.Generate      `cmd:"" help:"Generate protocol code from schema files"`
	Check    cmd.Check         `cmd:"" help:"Verify previously generated code is up to date"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration helpers"`
}
