package main

import (
	"errors"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/gifraw"
	"github.com/urfave/cli/v2"
)

const defaultDB = "gifraw.db"

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

// createFile refuses to overwrite an existing output file.
func createFile(name string) (*os.File, error) {
	if _, err := os.Stat(name); err == nil {
		return nil, errors.New("output file already exists")
	}
	return os.Create(name)
}

func main() {
	app := cli.NewApp()

	app.Name = "gifraw"
	app.Usage = "Convert between GIF files and raw RGB data"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GIFRAW_DB"},
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
			Name:        "decode",
			Usage:       "Decode a GIF file into raw RGB data",
			Description: "",
			ArgsUsage:   "FILE OUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g := gifraw.New(nil, newLogger(c))

				in, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer in.Close()

				out, err := createFile(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer out.Close()

				if err := g.Decode(in, out); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "encode",
			Usage:       "Encode raw RGB data into a GIF file",
			Description: "",
			ArgsUsage:   "FILE OUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "width",
					Aliases:  []string{"w"},
					Usage:    "width of the input in pixels",
					Required: true,
				},
				&cli.BoolFlag{
					Name:    "no-dict-reset",
					Aliases: []string{"r"},
					Usage:   "don't reset the LZW dictionary when it fills up",
				},
				&cli.BoolFlag{
					Name:    "quantize",
					Aliases: []string{"q"},
					Usage:   "reduce inputs with more than 256 colors instead of failing",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g := gifraw.New(nil, newLogger(c))

				in, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer in.Close()

				out, err := createFile(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer out.Close()

				if err := g.Encode(in, out, &gifraw.EncodeOptions{
					Width:    c.Int("width"),
					NoReset:  c.Bool("no-dict-reset"),
					Quantize: c.Bool("quantize"),
				}); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "info",
			Usage:       "Print the block structure of a GIF file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				g := gifraw.New(nil, newLogger(c))

				in, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer in.Close()

				if err := g.Info(in, os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Scan filesystem and record GIF metadata",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				db, err := gifraw.NewGifDB(c.String("db"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				g := gifraw.New(db, newLogger(c))
				defer g.Close()

				if err := g.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
