package typeline

// ============================================================
// Options
// ============================================================

// dialect fixes the two delimiter characters for one codec.
type dialect struct {
	delim rune // row delimiter, separates cells
	sub   rune // sub-delimiter, separates composite elements inside a cell
}

// config carries every construction-time knob. Codecs, readers, and
// writers each consume the subset that concerns them.
type config struct {
	delim           rune
	sub             rune
	header          bool
	commentPrefixes []string
	continueOnError bool
	lineTerminator  string
}

// defaultConfig returns the tab-separated dialect with a comma
// sub-delimiter, header handling on, and no comment prefixes.
func defaultConfig() config {
	return config{
		delim:          '\t',
		sub:            ',',
		header:         true,
		lineTerminator: "\n",
	}
}

// Option configures a codec, reader, or writer at construction.
type Option func(*config)

// WithDelimiter sets the row delimiter (default tab).
func WithDelimiter(delim rune) Option {
	return func(c *config) { c.delim = delim }
}

// WithSubDelimiter sets the sub-delimiter used inside composite cells
// (default comma). It must differ from the row delimiter.
func WithSubDelimiter(sub rune) Option {
	return func(c *config) { c.sub = sub }
}

// WithoutHeader disables the header row: the reader treats the first
// line as data and the writer's WriteHeader becomes a state error.
func WithoutHeader() Option {
	return func(c *config) { c.header = false }
}

// WithCommentPrefix makes the reader skip lines starting with any of the
// given prefixes (leading whitespace ignored).
func WithCommentPrefix(prefixes ...string) Option {
	return func(c *config) { c.commentPrefixes = append(c.commentPrefixes, prefixes...) }
}

// ContinueOnError lets the reader keep producing records after a row
// fails to decode. Without it, the first row error is latched and
// returned by every subsequent Next call.
func ContinueOnError() Option {
	return func(c *config) { c.continueOnError = true }
}

// WithLineTerminator sets the writer's line terminator (default "\n").
func WithLineTerminator(term string) Option {
	return func(c *config) { c.lineTerminator = term }
}

// dialect validates the configured delimiters.
func (c config) dialect() (dialect, error) {
	if c.delim == 0 || c.sub == 0 {
		return dialect{}, &ConfigurationError{Message: "delimiters must be non-zero runes"}
	}
	if c.delim == c.sub {
		return dialect{}, &ConfigurationError{
			Message: "row delimiter and sub-delimiter must differ",
		}
	}
	for _, r := range []rune{c.delim, c.sub} {
		switch r {
		case '\\', '\n', '\r':
			return dialect{}, &ConfigurationError{
				Message: "delimiter collides with the escape scheme",
			}
		}
	}
	return dialect{delim: c.delim, sub: c.sub}, nil
}

// apply folds options over the defaults.
func apply(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
