package compiler

import (
	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/bfk/errors"
)

const lintStage = "lint"

// Lint reports every unmatched bracket in src, where Compile stops at the
// first. Offsets are byte offsets into src, so src may still contain
// comments. The returned error is a *multierror.Error, or nil if every
// bracket is paired.
func Lint(src []byte) error {
	var result *multierror.Error
	var open []int
	for i, c := range src {
		switch c {
		case '[':
			open = append(open, i)
		case ']':
			if len(open) == 0 {
				result = multierror.Append(result, errors.ParseErrorAt(lintStage, "unmatched closing bracket", i))
				continue
			}
			open = open[:len(open)-1]
		}
	}
	for _, i := range open {
		result = multierror.Append(result, errors.ParseErrorAt(lintStage, "unmatched opening bracket", i))
	}
	return result.ErrorOrNil()
}
