package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/encode"
	"github.com/webaverse/go-gltf/glb"

	"github.com/scott-cotton/cli"
)

func unpack(cfg *UnpackConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Unpack.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: unpack takes exactly one file", cli.ErrUsage)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	c, err := glb.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}
	doc := asset.New()
	if err := decodeSections(c.JSON, &doc.Sections); err != nil {
		return err
	}
	buf, err := c.Buffer()
	if err != nil {
		return err
	}

	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Dir(args[0])
	}
	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))

	text, err := encode.Marshal(doc)
	if err != nil {
		return err
	}
	docPath := filepath.Join(dir, base+".gltf")
	if err := os.WriteFile(docPath, text, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, docPath)
	if len(buf) == 0 {
		return nil
	}
	binPath := filepath.Join(dir, base+".bin")
	if err := os.WriteFile(binPath, buf, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, binPath)
	return nil
}
