package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/32bitkid/blam"
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/tag"
)

type verdict int

const (
	verdictExact verdict = iota
	verdictDiffers
	verdictChecksum
	verdictFailed
)

func (v verdict) String() string {
	switch v {
	case verdictExact:
		return "ok"
	case verdictDiffers:
		return "differs"
	case verdictChecksum:
		return "checksum mismatch"
	}
	return "failed"
}

// verifyTag reads and rewrites a tag and compares the result with the
// original bytes.
func verifyTag(m *blam.Mapping) (verdict, error) {
	b, err := m.Bytes()
	if err != nil {
		return verdictFailed, err
	}
	f, err := m.Tag()
	if err != nil {
		return verdictFailed, err
	}
	out, err := tag.Write(f)
	if err != nil {
		return verdictFailed, errs.Wrapf(err, "rewrite %s", m.Reference())
	}
	switch {
	case f.CRCMismatch:
		return verdictChecksum, nil
	case !bytes.Equal(b, out):
		return verdictDiffers, nil
	}
	return verdictExact, nil
}

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Read and rewrite tags, reporting whether the result is byte-exact",
		ArgsUsage: "[tag...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			var mappings []*blam.Mapping
			if cmd.NArg() == 0 {
				all, err := blam.NewRoot(tagsDir).LoadMapping()
				if err != nil {
					return err
				}
				mappings = all
			}
			for _, arg := range cmd.Args().Slice() {
				m, err := mappingFor(arg)
				if err != nil {
					return err
				}
				mappings = append(mappings, m)
			}

			var bad int
			for _, m := range mappings {
				v, err := verifyTag(m)
				if err != nil {
					log.Error("verify failed", "tag", m.Reference().String(), "error", err)
				}
				if v != verdictExact {
					bad++
				}
				fmt.Printf("%-18s %s\n", v, m.Reference())
			}
			log.Info("verified", "tags", len(mappings), "failed", bad)
			if bad > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d tags did not verify", bad, len(mappings)), 1)
			}
			return nil
		},
	}
}
