package main

import (
	"context"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/32bitkid/blam/tag"
)

type dumpDocument struct {
	Group       string     `json:"group"`
	CRCMismatch bool       `json:"crc_mismatch,omitempty"`
	Root        tag.Object `json:"root"`
}

func dump(w io.Writer, f *tag.File, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(dumpDocument{
		Group:       f.Group.String(),
		CRCMismatch: f.CRCMismatch,
		Root:        tag.Tree(f.Root),
	})
}

func dumpCmd() *cli.Command {
	var compact bool
	return &cli.Command{
		Name:      "dump",
		Usage:     "Print a tag's fields as JSON",
		ArgsUsage: "<tag>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "compact", Usage: "print without indentation", Destination: &compact},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			m, err := mappingFor(cmd.Args().First())
			if err != nil {
				return err
			}
			f, err := m.Tag()
			if err != nil {
				return err
			}
			return dump(os.Stdout, f, !compact)
		},
	}
}
