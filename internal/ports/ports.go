package ports

import (
	"context"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/timerange"
	"github.com/forPelevin/reelcut/internal/types"
)

// MediaSource resolves a source reference into metadata and materializes a
// chosen stream to local storage. Direct stream locators come back on the
// format descriptors themselves, so remote mode needs no extra call.
type MediaSource interface {
	Lookup(ctx context.Context, url string) (types.SourceVideo, error)
	Download(ctx context.Context, url, formatID, destPath string) error
}

// CaptionSource fetches a caption track for the first language in langs that
// the service offers, accepting auto-generated captions as a last resort.
// (nil, nil) means no captions exist in any requested language; that is an
// expected outcome, not an error.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, url string, langs []string, destDir string) (*types.CaptionTrack, error)
}

// RangeScorer asks the content-scoring oracle for the most engaging window in
// the transcript. It never fails: any service or parse problem collapses into
// the default range, with the reason recorded on the outcome.
type RangeScorer interface {
	SelectRange(ctx context.Context, transcript string, def timerange.Range) timerange.Outcome
}

type VideoTool interface {
	// CutLocal trims an already-downloaded file, re-encoding since stream copy
	// is not safe at arbitrary cut points.
	CutLocal(ctx context.Context, inPath, outPath string, r timerange.Range) error
	// CutRemote seeks against the remote locator before decode and stream-copies
	// the window, so only the requested bytes are fetched.
	CutRemote(ctx context.Context, streamURL, outPath string, r timerange.Range) error
	BurnSubtitles(ctx context.Context, inClip, srtPath, outPath string) error
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}
