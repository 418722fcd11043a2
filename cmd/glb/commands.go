package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "glb").
		WithSynopsis("glb [opts] command [opts]").
		WithDescription("glb is a tool for working with glTF binary containers.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return glbMain(cfg, cc, args)
		}).
		WithSubs(
			PackCommand(cfg),
			UnpackCommand(cfg),
			ViewCommand(cfg),
			DiffCommand(cfg),
			QueryCommand(cfg),
			PublishCommand(cfg))
}

func glbMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func PackCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PackConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Pack, "pack").
		WithAliases("p").
		WithSynopsis("pack [-bin file] <file.gltf>").
		WithDescription("pack a glTF document and its buffer into a container").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return pack(cfg, cc, args)
		})
}

func UnpackCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &UnpackConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Unpack, "unpack").
		WithAliases("u", "un").
		WithSynopsis("unpack [-dir d] <file.glb>").
		WithDescription("split a container into a .gltf document and a .bin buffer").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return unpack(cfg, cc, args)
		})
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view glTF and container files in color").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff <a> <b>").
		WithDescription("diff the document trees of two glTF or container files").
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Query, "query").
		WithAliases("q").
		WithSynopsis("query <expr> [files]").
		WithDescription("evaluate an expression against document trees").
		WithRun(func(cc *cli.Context, args []string) error {
			return query(cfg, cc, args)
		})
}

func PublishCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PublishConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Publish, "publish").
		WithAliases("pub").
		WithSynopsis("publish [-endpoint url] [-open] <file.glb>").
		WithDescription("post a container to a content-addressed store and print the hash").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return publishCmd(cfg, cc, args)
		})
}
