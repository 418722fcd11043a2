package encode

type Option func(*EncState)

// Compact selects minimal separators and no indentation. Used for GLB
// containers to minimize binary size.
func Compact() Option {
	return func(es *EncState) { es.compact = true }
}

// Indent sets the pretty-mode indent width. The default is 4.
func Indent(n int) Option {
	return func(es *EncState) { es.indent = n }
}

// WithColors enables terminal coloring of the output. Colored output is
// not valid JSON and must never be written to an artifact file.
func WithColors(c *Colors) Option {
	return func(es *EncState) { es.colors = c }
}
