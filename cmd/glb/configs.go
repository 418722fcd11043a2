package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/webaverse/go-gltf/encode"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

// theLog writes terse diagnostics to stderr, keeping cc.Out clean for
// command output.
var theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.TimeKey:
			return slog.Attr{}
		case slog.LevelKey:
			if a.Value.String() == "INFO" {
				return slog.Attr{}
			}
		}
		return a
	},
}))

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	Compact bool `cli:"name=compact aliases=w desc='encode in compact wire format'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.Option {
	var res []encode.Option
	if cfg.Compact {
		res = append(res, encode.Compact())
	}
	if cfg.Color {
		res = append(res, encode.WithColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.WithColors(encode.NewColors()))
	}
	return res
}

type PackConfig struct {
	*MainConfig

	Bin string `cli:"name=bin desc='binary buffer file'"`

	Pack *cli.Command
}

type UnpackConfig struct {
	*MainConfig

	Dir string `cli:"name=dir desc='destination directory (default alongside input)'"`

	Unpack *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type QueryConfig struct {
	*MainConfig

	Query *cli.Command
}

type PublishConfig struct {
	*MainConfig

	Endpoint string `cli:"name=endpoint desc='publish endpoint url'"`
	Open     bool   `cli:"name=open desc='open the viewer url in a browser'"`

	Publish *cli.Command
}
