package main

import (
	"os"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/commschamp/commsdslgen/internal/codegen/common"
	"github.com/commschamp/commsdslgen/internal/config"
	"github.com/commschamp/commsdslgen/internal/configpaths"
	"github.com/commschamp/commsdslgen/internal/log"
)

func main() {
	userCfg := configpaths.FindUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	version := common.Version
	if v, err := common.CurrentVersion(); err == nil {
		version = v.String()
	}

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("commsdslgen"),
		kong.Description("Code generator for commsdsl protocol schemas"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, warns, closeFiles, err := log.SetupLogger(cli.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var emitLogger log.EmitLogger
	if cli.Log.EmitFile != "" {
		f, err := os.OpenFile(cli.Log.EmitFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open emit log file", "file", cli.Log.EmitFile, "error", err)
			emitLogger = log.NewEmit(nil)
		} else {
			emitLogger = log.NewEmit(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" {
		emitLogger = log.NewEmit(os.Stdout)
	} else {
		emitLogger = log.NewEmit(nil)
	}

	ctx.Bind(logger, warns)
	ctx.BindTo(emitLogger, (*log.EmitLogger)(nil))

	err = ctx.Run()
	if err != nil {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}
	ctx.FatalIfErrorf(err)
}
