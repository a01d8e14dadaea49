package types

import "errors"

// Terminal error kinds surfaced by the pipeline. Callers match them with
// errors.Is; adapters wrap them with the underlying cause.
var (
	ErrRangeInvalid       = errors.New("invalid time range")
	ErrNoEligibleFormat   = errors.New("no eligible format")
	ErrAcquisition        = errors.New("media acquisition failed")
	ErrRangeExceedsSource = errors.New("range start exceeds source duration")
	ErrExtraction         = errors.New("clip extraction failed")
	ErrOverlay            = errors.New("subtitle burn-in failed")
)
