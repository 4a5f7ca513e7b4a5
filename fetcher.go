package domgrab

import "context"

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch navigates to the URL, waits for JavaScript to render,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Submitter sends extraction output to a remote backend.
type Submitter interface {
	// Submit posts out to backendURL. pageHTML is optional and may be empty.
	Submit(ctx context.Context, backendURL string, out *Output, pageHTML string) error
}

// Formatter renders an output in a given format.
type Formatter interface {
	Format(out *Output, format Format, rs *RuleSet) (string, error)
}
