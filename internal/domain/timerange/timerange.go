package timerange

import (
	"fmt"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

// Range is a half-open [Start, End) interval on the source timeline.
type Range struct {
	Start time.Duration
	End   time.Duration
}

func (r Range) Length() time.Duration { return r.End - r.Start }

// Request describes how the caller wants the range chosen. A zero End means
// "Start plus Length"; a set End always wins over Length.
type Request struct {
	Start  time.Duration
	End    time.Duration
	Length time.Duration
}

// Resolve validates the request against the source's true duration and clamps
// the end to it. A zero total duration means "unknown" and skips clamping,
// which happens in remote mode where duration is only precise after probing.
func Resolve(req Request, total time.Duration) (Range, error) {
	if req.Start < 0 {
		return Range{}, fmt.Errorf("%w: start %s is negative", types.ErrRangeInvalid, req.Start)
	}
	if total > 0 && req.Start > total {
		return Range{}, fmt.Errorf("%w: start %s exceeds source duration %s", types.ErrRangeInvalid, req.Start, total)
	}
	end := req.End
	if end <= 0 {
		end = req.Start + req.Length
	}
	if total > 0 && end > total {
		end = total
	}
	if end <= req.Start {
		return Range{}, fmt.Errorf("%w: empty range [%s, %s)", types.ErrRangeInvalid, req.Start, end)
	}
	return Range{Start: req.Start, End: end}, nil
}

// Outcome is a scorer result that always carries a usable range. Fallback and
// Reason record why the default won, for logging and tests; they never turn
// into an error at this boundary.
type Outcome struct {
	Range    Range
	Fallback bool
	Reason   string
}

// Ok wraps a scorer-chosen range.
func Ok(r Range) Outcome { return Outcome{Range: r} }

// FallbackTo wraps the default range with the reason the scorer was bypassed.
func FallbackTo(def Range, reason string) Outcome {
	return Outcome{Range: def, Fallback: true, Reason: reason}
}
