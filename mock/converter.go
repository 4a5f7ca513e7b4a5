package mock

import "github.com/fwojciec/domgrab"

var _ domgrab.Converter = (*Converter)(nil)

// Converter is a mock implementation of domgrab.Converter.
type Converter struct {
	ConvertFn func(fragment string) (string, error)
}

func (c *Converter) Convert(fragment string) (string, error) {
	return c.ConvertFn(fragment)
}
