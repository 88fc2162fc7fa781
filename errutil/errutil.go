package errutil

import (
	"fmt"
)

// debug gates the internal consistency assertions. The checks guard invariants
// of a well-formed BWT (an LCP slot filled twice, coverage exceeding n, paired
// leaves at different depths); a failure means corrupt input or a bug, never a
// recoverable condition.
const debug = false

func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func FatalIf(err error) {
	if err == nil {
		return
	}
	panic(fmt.Sprintf("FATAL: %v", err))
}

func Bug(format string, msg ...any) {
	if debug {
		panic(fmt.Sprintf(format, msg...))
	}
}

func BugOn(cond bool, format string, msg ...any) {
	if debug && cond {
		Bug(format, msg...)
	}
}
