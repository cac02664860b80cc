package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/32bitkid/blam"
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/primitive"
)

var (
	tagsDir    string
	logLevel   string
	logFormat  string
	configFile string

	config Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tags",
			Aliases:     []string{"t"},
			Usage:       "tags directory that tag references resolve against",
			Value:       "tags",
			Destination: &tagsDir,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "config file",
			Value:       configPath(),
			Destination: &configFile,
		},
	}
}

// setup loads the config and installs the logger on the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return ctx, err
	}
	config = cfg
	applyGlobalConfig(cmd, cfg)

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, err
	}
	log, err := logger.ForFormat(os.Stderr, logFormat, level)
	if err != nil {
		return ctx, err
	}
	log.Debug("configured", "tags", tagsDir, "config", configFile)
	return logger.WithContext(ctx, log), nil
}

// mappingFor accepts either a tag file on disk or a tag reference below
// the tags directory.
func mappingFor(arg string) (*blam.Mapping, error) {
	if st, err := os.Stat(arg); err == nil && !st.IsDir() {
		ext := filepath.Ext(arg)
		group, err := primitive.GroupFromExtension(strings.TrimPrefix(ext, "."))
		if err != nil {
			return nil, errs.Wrapf(err, "tag file %s", arg)
		}
		path, err := primitive.NewTagPath(strings.TrimSuffix(filepath.Base(arg), ext))
		if err != nil {
			return nil, err
		}
		return blam.NewRoot(filepath.Dir(arg)).Mapping(primitive.TagReference{Group: group, Path: path})
	}

	ref, err := primitive.ParseTagReference(arg)
	if err != nil {
		return nil, err
	}
	return blam.NewRoot(tagsDir).Mapping(ref)
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() < n {
		return cli.Exit("error: usage: "+cmd.FullName()+" "+cmd.ArgsUsage, 1)
	}
	return nil
}
