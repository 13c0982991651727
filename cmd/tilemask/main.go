package main

import (
	"errors"
	"fmt"
	"image"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bodgit/tilemask"
	"github.com/bodgit/tilemask/config"
	"github.com/bodgit/tilemask/mask"
	"github.com/bodgit/tilemask/prepare"
	"github.com/urfave/cli/v2"
)

const defaultDB = "tilemask.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// exitError maps the kind of error to an exit code; validation failures and
// state errors are reported distinctly from I/O failures
func exitError(err error) error {
	k := tilemask.KindOf(err)
	switch {
	case k.IsValidation():
		return cli.NewExitError(err, 2)
	case k.IsState():
		return cli.NewExitError(err, 3)
	default:
		return cli.NewExitError(err, 1)
	}
}

func withTileMask(c *cli.Context, fn func(*tilemask.TileMask) error) error {
	db, err := tilemask.NewMaskDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	if err := fn(tilemask.New(db, newLogger(c))); err != nil {
		return exitError(err)
	}
	return nil
}

func requireArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
}

func withExtension(file string) string {
	if !strings.EqualFold(filepath.Ext(file), mask.Extension) {
		return file + mask.Extension
	}
	return file
}

func parseInts(s string, n int) ([]int, error) {
	fields := strings.Split(s, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", n, s)
	}
	v := make([]int, n)
	for i, f := range fields {
		var err error
		if v[i], err = strconv.Atoi(strings.TrimSpace(f)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// selection collects the tiles named by --tile and the rectangles named by
// --rect, rectangles being inclusive of both corners
func selection(c *cli.Context) ([]image.Point, []image.Rectangle, error) {
	var pts []image.Point
	for _, s := range c.StringSlice("tile") {
		v, err := parseInts(s, 2)
		if err != nil {
			return nil, nil, err
		}
		pts = append(pts, image.Pt(v[0], v[1]))
	}
	var rects []image.Rectangle
	for _, s := range c.StringSlice("rect") {
		v, err := parseInts(s, 4)
		if err != nil {
			return nil, nil, err
		}
		rects = append(rects, image.Rect(v[0], v[1], v[2]+1, v[3]+1))
	}
	if len(pts) == 0 && len(rects) == 0 {
		return nil, nil, errors.New("no tiles selected, use --tile or --rect")
	}
	return pts, rects, nil
}

func main() {
	app := cli.NewApp()

	app.Name = "tilemask"
	app.Usage = "SGDK palette and priority tile mask utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"TILEMASK_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "validate",
			Usage:       "Check an image can be masked",
			Description: "The image must be an indexed PNG, GIF or BMP stored at 8 bits per pixel using only the first 16 colors.",
			ArgsUsage:   "IMAGE",
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				return withTileMask(c, func(t *tilemask.TileMask) error {
					return t.Validate(c.Args().First())
				})
			},
		},
		{
			Name:        "new",
			Usage:       "Create a default mask for an image",
			Description: "",
			ArgsUsage:   "IMAGE MASK",
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				return withTileMask(c, func(t *tilemask.TileMask) error {
					return t.NewMask(c.Args().Get(0), withExtension(c.Args().Get(1)))
				})
			},
		},
		{
			Name:        "edit",
			Usage:       "Change the palette and/or priority of tiles",
			Description: "Tiles are addressed by column and row, not pixels.",
			ArgsUsage:   "IMAGE MASK",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:  "tile",
					Usage: "tile to change as X,Y",
				},
				&cli.StringSliceFlag{
					Name:  "rect",
					Usage: "rectangle of tiles to change as X0,Y0,X1,Y1",
				},
				&cli.IntFlag{
					Name:  "palette",
					Value: -1,
					Usage: "palette bank, 0 to 3",
				},
				&cli.IntFlag{
					Name:  "priority",
					Value: -1,
					Usage: "priority, 0 (low) or 1 (high)",
				},
			},
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				pts, rects, err := selection(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				return withTileMask(c, func(t *tilemask.TileMask) error {
					return t.Edit(c.Args().Get(0), withExtension(c.Args().Get(1)), tilemask.Edit{
						Points:   pts,
						Rects:    rects,
						Palette:  c.Int("palette"),
						Priority: c.Int("priority"),
					})
				})
			},
		},
		{
			Name:        "export",
			Usage:       "Apply a mask to an image",
			Description: "If MASK is omitted the mask stored in the database for the image is used.",
			ArgsUsage:   "IMAGE [MASK] OUTPUT",
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				args := c.Args()
				imageFile, maskFile, outFile := args.Get(0), "", args.Get(1)
				if c.NArg() > 2 {
					maskFile, outFile = args.Get(1), args.Get(2)
				}

				return withTileMask(c, func(t *tilemask.TileMask) error {
					return t.Export(imageFile, maskFile, outFile)
				})
			},
		},
		{
			Name:        "store",
			Usage:       "Store a mask in the database",
			Description: "The mask is stored against the SHA1 of the image file.",
			ArgsUsage:   "IMAGE MASK",
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				return withTileMask(c, func(t *tilemask.TileMask) error {
					return t.Store(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:        "batch",
			Usage:       "Export every masked image in a directory",
			Description: "Images need a .msk file with the same name or a mask stored in the database.",
			ArgsUsage:   "DIRECTORY OUTPUT",
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				return withTileMask(c, func(t *tilemask.TileMask) error {
					return t.Batch(c.Args().Get(0), c.Args().Get(1))
				})
			},
		},
		{
			Name:        "prepare",
			Usage:       "Convert an image into a valid 16 color source",
			Description: "",
			ArgsUsage:   "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "dither",
					Usage: "use error diffusion when reducing colors",
				},
				&cli.BoolFlag{
					Name:  "snap",
					Usage: "resize down to a whole number of tiles",
				},
			},
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				m, _, err := tilemask.ReadImage(c.Args().Get(0))
				if err != nil {
					return exitError(err)
				}

				o := prepare.Options{
					Snap: c.Bool("snap"),
				}
				if c.Bool("dither") {
					o.Quantizer = prepare.Dither
				}

				pm, err := prepare.Convert(m.Image, o)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := tilemask.WriteImage(c.Args().Get(1), pm); err != nil {
					return exitError(err)
				}

				return nil
			},
		},
		{
			Name:        "config",
			Usage:       "Show or change stored settings",
			Description: "Colors are written as #AARRGGBB.",
			ArgsUsage:   "[KEY [VALUE]]",
			Action: func(c *cli.Context) error {
				return withTileMask(c, func(t *tilemask.TileMask) error {
					args := c.Args()
					switch c.NArg() {
					case 0:
						cfg, err := t.Config()
						if err != nil {
							return err
						}
						for _, k := range config.Keys() {
							v, _ := cfg.Get(k)
							fmt.Printf("%s=%s\n", k, v)
						}
					case 1:
						cfg, err := t.Config()
						if err != nil {
							return err
						}
						v, err := cfg.Get(args.First())
						if err != nil {
							return err
						}
						fmt.Println(v)
					default:
						return t.SetConfig(args.Get(0), args.Get(1))
					}
					return nil
				})
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
