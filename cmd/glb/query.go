package main

import (
	"encoding/json"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/expr-lang/expr"
)

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) < 1 {
		return fmt.Errorf("%w: query needs an expression", cli.ErrUsage)
	}
	src := args[0]
	files := args[1:]
	if len(files) == 0 {
		doc, err := loadDocumentIn(cc.In)
		if err != nil {
			return err
		}
		return queryDoc(cc, src, doc.Sections)
	}
	for _, f := range files {
		doc, err := loadDocument(f)
		if err != nil {
			return err
		}
		if err := queryDoc(cc, src, doc.Sections); err != nil {
			return err
		}
	}
	return nil
}

func queryDoc(cc *cli.Context, src string, sections map[string]any) error {
	env := map[string]any{"doc": sections}
	for k, v := range sections {
		env[k] = v
	}
	out, err := expr.Eval(src, env)
	if err != nil {
		return err
	}
	switch out.(type) {
	case map[string]any, []any:
		enc := json.NewEncoder(cc.Out)
		enc.SetIndent("", "    ")
		return enc.Encode(out)
	default:
		_, err = fmt.Fprintln(cc.Out, out)
		return err
	}
}
