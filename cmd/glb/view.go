package main

import (
	"github.com/webaverse/go-gltf/asset"
	"github.com/webaverse/go-gltf/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	docs := []*asset.Document{}
	if len(args) == 0 {
		doc, err := loadDocumentIn(cc.In)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	for _, arg := range args {
		doc, err := loadDocument(arg)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	opts := cfg.encOpts(cc.Out)
	for _, doc := range docs {
		if err := encode.Encode(doc, cc.Out, opts...); err != nil {
			return err
		}
	}
	return nil
}
