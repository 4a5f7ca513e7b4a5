package domgrab

// Extractor executes a rule set against a document.
type Extractor interface {
	// Extract evaluates every rule in rs against doc. Rules that do not
	// resolve yield nil values or empty rows; only a malformed rule set
	// fails the call, with a *RuleSetError.
	Extract(rs *RuleSet, doc *Document) (*Output, error)
}
