package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/webaverse/go-gltf/publish"

	"github.com/scott-cotton/cli"
)

func publishCmd(cfg *PublishConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Publish.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: publish takes exactly one file", cli.ErrUsage)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	ext := strings.TrimPrefix(filepath.Ext(args[0]), ".")
	if ext != "vrm" {
		ext = "glb"
	}

	p := publish.New()
	p.Log = theLog
	if cfg.Endpoint != "" {
		p.Endpoint = cfg.Endpoint
	}
	if cfg.Open {
		p.OpenViewer = publish.OpenBrowser
	}
	receipt, err := p.Publish(context.Background(), data, ext)
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, receipt.Hash)
	fmt.Fprintln(cc.Out, receipt.ViewerURL)
	return nil
}
