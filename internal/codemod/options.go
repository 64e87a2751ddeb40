package codemod

// Quote styles for synthesized string literals. Pass-through expression slices
// keep whatever quoting the original author used.
const (
	QuoteSingle = "single"
	QuoteDouble = "double"
)

// PrintOptions controls the shape of emitted declarations.
type PrintOptions struct {
	// Quote is the quote style for synthesized strings (title, excludeStories,
	// story names). One of QuoteSingle or QuoteDouble.
	Quote string

	// TrailingComma appends a comma after the last entry of emitted multiline
	// object literals.
	TrailingComma bool

	// Indent is the number of spaces per indentation level.
	Indent int
}

// Options configures a single transform invocation.
type Options struct {
	// LegacyName is the identifier of the legacy registration function.
	LegacyName string

	Print PrintOptions
}

// DefaultOptions matches the conventions of the legacy ecosystem: storiesOf
// roots, single quotes, trailing commas, two-space indent.
func DefaultOptions() Options {
	return Options{
		LegacyName: "storiesOf",
		Print: PrintOptions{
			Quote:         QuoteSingle,
			TrailingComma: true,
			Indent:        2,
		},
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.LegacyName == "" {
		o.LegacyName = def.LegacyName
	}
	if o.Print.Quote == "" {
		o.Print.Quote = def.Print.Quote
	}
	if o.Print.Indent <= 0 {
		o.Print.Indent = def.Print.Indent
	}
	return o
}

func (o PrintOptions) quoteRune() byte {
	if o.Quote == QuoteDouble {
		return '"'
	}
	return '\''
}
