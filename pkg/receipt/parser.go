package receipt

// Parser runs the full primary extraction: classification, strategy dispatch
// and the fallback recovery chain.
type Parser struct{}

// Extract parses raw OCR text into a working record. It never fails; text
// with no recognizable structure yields a record of empty fields.
func (Parser) Extract(text string) *Result {
	strategy := SelectStrategy(text)
	res := NewResult(strategy.Parse(text))
	return ApplyFallbacks(text, res)
}

// Extract is the package-level single-pass entry point.
func Extract(text string) *Result {
	return Parser{}.Extract(text)
}
