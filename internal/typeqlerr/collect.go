package typeqlerr

import (
	"errors"

	"go.uber.org/multierr"
)

// Collect combines the results of independent checks. It returns nil when
// every input is nil and never drops a non-nil input.
func Collect(errs ...error) error {
	return multierr.Combine(errs...)
}

// Append adds err to the accumulated errors in into.
func Append(into *error, err error) {
	*into = multierr.Append(*into, err)
}

// List flattens an accumulated error into its coded errors. Errors that are
// not *Error values are skipped.
func List(err error) []*Error {
	if err == nil {
		return nil
	}
	var out []*Error
	for _, e := range multierr.Errors(err) {
		var te *Error
		if errors.As(e, &te) {
			out = append(out, te)
		}
	}
	return out
}

// Codes returns the formatted codes of every coded error in err, in order.
func Codes(err error) []string {
	list := List(err)
	if len(list) == 0 {
		return nil
	}
	codes := make([]string, len(list))
	for i, e := range list {
		codes[i] = e.Code()
	}
	return codes
}

// Has reports whether err contains an error of the given kind.
func Has(err error, kind *Kind) bool {
	return errors.Is(err, kind)
}
