package jumptrace

import (
	"errors"
	"fmt"
)

// Contract violations reported to the caller. Data-quality oddities are never
// errors; the classifier degrades to a best-effort result instead.
var (
	ErrNoSamples      = errors.New("jumptrace: empty sample sequence")
	ErrTooFewSamples  = errors.New("jumptrace: sample sequence shorter than the classifier can reason about")
	ErrLengthMismatch = errors.New("jumptrace: smoothed series length does not match sample count")
	ErrNoSegments     = errors.New("jumptrace: empty segment list")
)

type errUnknownPhase string

func (e errUnknownPhase) Error() string {
	return fmt.Sprintf("jumptrace: unknown phase %q", string(e))
}
