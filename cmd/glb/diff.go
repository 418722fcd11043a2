package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/webaverse/go-gltf/encode"

	"github.com/scott-cotton/cli"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff takes exactly two files", cli.ErrUsage)
	}
	ta, err := diffText(args[0])
	if err != nil {
		return err
	}
	tb, err := diffText(args[1])
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(ta, tb)
	ds := dmp.DiffMain(ca, cb, false)
	ds = dmp.DiffCharsToLines(ds, lines)

	useColor := cfg.Color
	if !useColor {
		if f, ok := cc.Out.(*os.File); ok {
			useColor = isatty.IsTerminal(f.Fd())
		}
	}
	for _, d := range ds {
		prefix, paint := "  ", fmt.Sprintf
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
			if useColor {
				paint = color.RedString
			}
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
			if useColor {
				paint = color.GreenString
			}
		}
		for _, line := range splitLines(d.Text) {
			fmt.Fprintln(cc.Out, paint("%s%s", prefix, line))
		}
	}
	return nil
}

// diffText renders a file as deterministic uncolored text so the line
// diff reflects document content only.
func diffText(path string) (string, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return "", err
	}
	text, err := encode.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
