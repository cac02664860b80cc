package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/32bitkid/blam/cachefile"
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
)

var engineNames = []cachefile.Engine{
	cachefile.EngineXbox,
	cachefile.EngineDemo,
	cachefile.EnginePC,
	cachefile.EngineCustomEdition,
}

func parseEngine(name string) (cachefile.Engine, error) {
	for _, e := range engineNames {
		if strings.EqualFold(e.String(), name) {
			return e, nil
		}
	}
	return 0, errs.Invalidf("unknown cache file engine %q", name)
}

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and convert cache files",
		Commands: []*cli.Command{
			cacheInfoCmd(),
			cacheConvertCmd("compress", "Compress a plain cache file", cachefile.Compress),
			cacheConvertCmd("decompress", "Decompress a cache file", cachefile.Decompress),
		},
	}
}

func cacheInfoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print a cache file's header",
		ArgsUsage: "<map>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			b, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			h, err := cachefile.ParseHeader(b)
			if err != nil {
				return err
			}
			fmt.Printf("scenario:   %s\n", h.ScenarioName)
			fmt.Printf("build:      %s\n", h.Build)
			fmt.Printf("engine:     %s\n", h.Engine)
			fmt.Printf("map type:   %s\n", h.MapType)
			fmt.Printf("file size:  0x%X\n", h.FileSize)
			fmt.Printf("tag data:   0x%X bytes at 0x%X\n", h.TagDataSize, h.TagDataOffset)
			fmt.Printf("crc32:      0x%08X\n", h.CRC32)
			if int(h.FileSize) == len(b) {
				if crc, err := cachefile.CRC32(b); err == nil && crc != h.CRC32 {
					fmt.Printf("            body checksums to 0x%08X\n", crc)
				}
			}
			return nil
		},
	}
}

func cacheConvertCmd(name, usage string, convert func([]byte) ([]byte, error)) *cli.Command {
	var engine string
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<in> <out>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "engine",
				Usage:       "refuse maps built for any other engine (xbox, pc, custom_edition)",
				Destination: &engine,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			if config.Engine != "" && !cmd.IsSet("engine") {
				engine = config.Engine
			}

			in, out := cmd.Args().Get(0), cmd.Args().Get(1)
			b, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			h, err := cachefile.ParseHeader(b)
			if err != nil {
				return err
			}
			if engine != "" {
				want, err := parseEngine(engine)
				if err != nil {
					return err
				}
				if h.Engine != want {
					return errs.Invalidf("%s is a %s map, not %s", in, h.Engine, want)
				}
			}

			converted, err := convert(b)
			if err != nil {
				return errs.Wrapf(err, "%s %s", name, in)
			}
			logger.FromContext(ctx).Info(name, "map", h.ScenarioName, "engine", h.Engine.String(),
				"in", len(b), "out", len(converted))
			return os.WriteFile(out, converted, 0o644)
		},
	}
}
