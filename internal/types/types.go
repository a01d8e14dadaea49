package types

import "time"

// SourceVideo is the acquisition-service view of one video: metadata plus the
// encoded formats and caption tracks it exposes. Immutable for the run.
type SourceVideo struct {
	URL      string
	ID       string
	Title    string
	Duration time.Duration
	Formats  []Format

	// Caption availability keyed by language code. Uploaded tracks and
	// auto-generated ones are kept apart so callers can prefer the former.
	Captions     map[string][]CaptionRef
	AutoCaptions map[string][]CaptionRef
}

// Format is one encoded stream descriptor as reported by the acquisition
// service. URL is a directly fetchable locator when the service exposes one.
type Format struct {
	ID     string
	Ext    string
	Height int
	VCodec string
	ACodec string
	URL    string
}

type CaptionRef struct {
	URL string
	Ext string
}

// CaptionTrack is a fetched caption file in SRT form. Text holds the raw file
// contents so domain code never has to re-read Path.
type CaptionTrack struct {
	Lang string
	Path string
	Text string
}

type Lifecycle string

const (
	LifecycleTemporary Lifecycle = "temporary"
	LifecycleFinal     Lifecycle = "final"
)

// MediaArtifact is a produced media file plus its lifecycle tag. Temporary
// artifacts are deleted by the orchestrator once nothing downstream needs them.
type MediaArtifact struct {
	Path      string
	Lifecycle Lifecycle
}
