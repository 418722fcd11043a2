package main

import (
	"fmt"
	"os"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/encode"
	"github.com/webaverse/go-gltf/glb"

	"github.com/scott-cotton/cli"
)

func pack(cfg *PackConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Pack.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: pack takes exactly one file", cli.ErrUsage)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	doc := asset.New()
	if err := decodeSections(data, &doc.Sections); err != nil {
		return err
	}
	if cfg.Bin != "" {
		doc.Buffer, err = os.ReadFile(cfg.Bin)
		if err != nil {
			return err
		}
	}
	if err := doc.CheckBuffer(); err != nil {
		return err
	}
	text, err := encode.Marshal(doc, encode.Compact())
	if err != nil {
		return err
	}
	return glb.WriteContainer(cc.Out, text, doc.Buffer)
}
