package main

import (
	"context"
	"image/png"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/32bitkid/blam"
	"github.com/32bitkid/blam/bitmap"
	"github.com/32bitkid/blam/errs"
	"github.com/32bitkid/blam/internal/logger"
	"github.com/32bitkid/blam/pixelfmt"
	"github.com/32bitkid/blam/primitive"
	"github.com/32bitkid/blam/tag"
	"github.com/32bitkid/blam/tag/schema"
)

func parseInputType(name string) (bitmap.InputType, error) {
	for t := bitmap.TwoDimensionalTextures; t <= bitmap.NonPowerOfTwoTextures; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, errs.Invalidf("unknown bitmap type %q", name)
}

func bitmapCmd() *cli.Command {
	return &cli.Command{
		Name:  "bitmap",
		Usage: "Convert between bitmap tags and color plates",
		Commands: []*cli.Command{
			bitmapExtractCmd(),
			bitmapImportCmd(),
		},
	}
}

func bitmapExtractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Rebuild the color plate of a bitmap tag as a PNG",
		ArgsUsage: "<tag> <out.png>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			m, err := mappingFor(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			img, err := blam.BitmapMapping{Mapping: m}.Render()
			if err != nil {
				return err
			}

			out, err := os.Create(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			defer out.Close()
			if err := png.Encode(out, img); err != nil {
				return errs.Wrapf(err, "write %s", out.Name())
			}
			logger.FromContext(ctx).Info("extracted", "tag", m.Reference().String(),
				"width", img.Rect.Dx(), "height", img.Rect.Dy())
			return out.Close()
		},
	}
}

type importOptions struct {
	inputType  string
	format     string
	dither     bool
	maxMipmaps int
	sprites    bool
}

// importPlate compiles a color plate image into a new bitmap tag.
func importPlate(ctx context.Context, plateImg bitmap.Image, opts importOptions) (*tag.File, error) {
	log := logger.FromContext(ctx)

	typ, err := parseInputType(opts.inputType)
	if err != nil {
		return nil, err
	}
	enc, err := pixelfmt.ParseEncoding(opts.format)
	if err != nil {
		return nil, err
	}

	plateOpts := bitmap.DefaultColorPlateOptions()
	plateOpts.InputType = typ
	plateOpts.BakeSpriteSheets = opts.sprites || typ == bitmap.Sprites
	plateOpts.Logger = log
	plate, err := bitmap.ScanColorPlate(plateImg, plateOpts)
	if err != nil {
		return nil, err
	}

	procOpts := bitmap.ProcessingOptions{Logger: log}
	if opts.maxMipmaps >= 0 {
		procOpts.MaxMipmaps = &opts.maxMipmaps
	}
	processed, err := bitmap.Process(plate, procOpts)
	if err != nil {
		return nil, err
	}

	f, err := tag.New(schema.Default(), primitive.GroupBitmap)
	if err != nil {
		return nil, err
	}
	if err := bitmap.ApplyToTag(f.Root, processed, enc, bitmap.ApplyOptions{Dither: opts.dither, ColorPlate: &plateImg}); err != nil {
		return nil, err
	}
	log.Info("imported", "type", typ.String(), "format", enc.String(),
		"bitmaps", len(processed.Bitmaps), "sequences", len(processed.Sequences))
	return f, nil
}

func bitmapImportCmd() *cli.Command {
	opts := importOptions{}
	return &cli.Command{
		Name:      "import",
		Usage:     "Compile a PNG color plate into a bitmap tag",
		ArgsUsage: "<plate.png> <out.bitmap>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "type",
				Usage:       "2d_textures, 3d_textures, cube_maps, sprites or interface_bitmaps",
				Value:       bitmap.TwoDimensionalTextures.String(),
				Destination: &opts.inputType,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "pixel encoding, such as a8r8g8b8, r5g6b5, bc1 or p8hce",
				Value:       pixelfmt.A8R8G8B8.String(),
				Destination: &opts.format,
			},
			&cli.BoolFlag{Name: "dither", Usage: "dither when reducing color depth", Destination: &opts.dither},
			&cli.IntFlag{
				Name:        "max-mipmaps",
				Usage:       "limit the mipmap chain; -1 generates every level",
				Value:       -1,
				Destination: &opts.maxMipmaps,
			},
			&cli.BoolFlag{Name: "sprite-sheets", Usage: "bake sprites onto sheets", Destination: &opts.sprites},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			if config.Dither != nil && !cmd.IsSet("dither") {
				opts.dither = *config.Dither
			}

			in, err := os.Open(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			defer in.Close()
			src, err := png.Decode(in)
			if err != nil {
				return errs.Invalidf("decode %s: %v", in.Name(), err)
			}

			f, err := importPlate(ctx, bitmap.FromImage(src), opts)
			if err != nil {
				return err
			}
			b, err := tag.Write(f)
			if err != nil {
				return err
			}
			return os.WriteFile(cmd.Args().Get(1), b, 0o644)
		},
	}
}
