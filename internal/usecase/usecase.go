package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forPelevin/reelcut/internal/domain/formats"
	"github.com/forPelevin/reelcut/internal/domain/subtitles"
	"github.com/forPelevin/reelcut/internal/domain/timerange"
	"github.com/forPelevin/reelcut/internal/ports"
	"github.com/forPelevin/reelcut/internal/types"
)

// Strategy picks how the clip's boundaries are chosen.
type Strategy string

const (
	FixedRange    Strategy = "fixed"    // start + fixed length
	ScoredRange   Strategy = "scored"   // transcript scoring, default range as fallback
	ExplicitRange Strategy = "explicit" // user-given start and end
)

// Mode picks how media is materialized for cutting.
type Mode string

const (
	ModeLocal  Mode = "local"  // full download, then a local re-encode cut
	ModeRemote Mode = "remote" // range-seek against the stream locator
)

type Deps struct {
	Media    ports.MediaSource
	Captions ports.CaptionSource
	Scorer   ports.RangeScorer
	Video    ports.VideoTool
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	URL      string
	Strategy Strategy
	Mode     Mode

	Start  time.Duration
	End    time.Duration // explicit strategy only
	Length time.Duration // fixed and scored strategies

	MaxHeight int
	Container string
	Langs     []string
	BurnSubs  bool

	// TempDir is this run's isolated scratch directory; every intermediate
	// artifact lands there. OutDir receives the final clip and the caption
	// side artifact.
	TempDir string
	OutDir  string

	Log logrus.FieldLogger
}

type Result struct {
	Clip   types.MediaArtifact
	Title  string
	Range  timerange.Range
	Burned bool
}

// Run drives the whole pipeline: metadata, format selection, captions, range
// resolution, cut, optional burn-in, finalization. Temporary artifacts are
// recorded as they appear and removed exactly once on the way out, success or
// failure.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := in.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	tmp := newTracker(log)
	defer tmp.removeAll()

	meta, err := u.d.Media.Lookup(ctx, in.URL)
	if err != nil {
		return Result{}, err
	}
	log.WithFields(logrus.Fields{"title": meta.Title, "duration": meta.Duration}).Info("resolved source metadata")

	container := in.Container
	if container == "" {
		container = "mp4"
	}
	format, err := formats.Select(meta.Formats, in.MaxHeight, container)
	if err != nil {
		return Result{}, err
	}
	log.WithFields(logrus.Fields{"format": format.ID, "height": format.Height}).Info("selected format")

	caption := u.fetchCaptions(ctx, in, log)

	rng, err := u.resolveRange(ctx, in, meta.Duration, caption, log)
	if err != nil {
		return Result{}, err
	}
	log.WithFields(logrus.Fields{"start": rng.Start, "end": rng.End}).Info("resolved clip range")

	clip := types.MediaArtifact{Path: filepath.Join(in.TempDir, "clip.mp4"), Lifecycle: types.LifecycleTemporary}
	tmp.add(clip.Path)
	switch in.Mode {
	case ModeRemote:
		if format.URL == "" {
			return Result{}, fmt.Errorf("%w: format %s exposes no direct stream locator", types.ErrNoEligibleFormat, format.ID)
		}
		err = u.d.Video.CutRemote(ctx, format.URL, clip.Path, rng)
	default:
		srcPath := filepath.Join(in.TempDir, "source."+format.Ext)
		tmp.add(srcPath)
		if err = u.d.Media.Download(ctx, in.URL, format.ID, srcPath); err != nil {
			return Result{}, err
		}
		log.WithField("path", srcPath).Info("downloaded source")
		err = u.d.Video.CutLocal(ctx, srcPath, clip.Path, rng)
	}
	if err != nil {
		return Result{}, err
	}

	final, burned := u.overlay(ctx, in, clip, caption, rng, tmp, log)

	outName := outputName(meta.Title, in.Strategy, burned)
	finalPath := filepath.Join(in.OutDir, outName)
	if err := moveFile(final.Path, finalPath); err != nil {
		return Result{}, fmt.Errorf("finalize clip: %w", err)
	}
	return Result{
		Clip:   types.MediaArtifact{Path: finalPath, Lifecycle: types.LifecycleFinal},
		Title:  meta.Title,
		Range:  rng,
		Burned: burned,
	}, nil
}

// fetchCaptions is best-effort: a missing track or a failed fetch both mean
// "no captions", never a pipeline failure. The fetched file lands in OutDir as
// a side artifact next to the clip.
func (u Usecase) fetchCaptions(ctx context.Context, in Input, log logrus.FieldLogger) *types.CaptionTrack {
	if !in.BurnSubs && in.Strategy != ScoredRange {
		return nil
	}
	caption, err := u.d.Captions.FetchCaptions(ctx, in.URL, in.Langs, in.OutDir)
	if err != nil {
		log.WithError(err).Warn("caption fetch failed, continuing without captions")
		return nil
	}
	if caption == nil {
		log.Info("no captions available")
		return nil
	}
	log.WithFields(logrus.Fields{"lang": caption.Lang, "path": caption.Path}).Info("fetched captions")
	return caption
}

func (u Usecase) resolveRange(
	ctx context.Context,
	in Input,
	total time.Duration,
	caption *types.CaptionTrack,
	log logrus.FieldLogger,
) (timerange.Range, error) {
	switch in.Strategy {
	case ExplicitRange:
		return timerange.Resolve(timerange.Request{Start: in.Start, End: in.End}, total)
	case ScoredRange:
		def, err := timerange.Resolve(timerange.Request{Start: in.Start, Length: in.Length}, total)
		if err != nil {
			return timerange.Range{}, err
		}
		if caption == nil {
			// No transcript means no scoring call to pay for.
			return def, nil
		}
		transcript := subtitles.PlainText(subtitles.ParseSRT(caption.Text))
		out := u.d.Scorer.SelectRange(ctx, transcript, def)
		if out.Fallback {
			log.WithField("reason", out.Reason).Warn("scorer fell back to default range")
			return out.Range, nil
		}
		// The oracle does not know the true duration; its pick goes back
		// through the resolver, and an out-of-bounds pick degrades to the
		// default rather than failing a best-effort enhancement.
		resolved, err := timerange.Resolve(timerange.Request{Start: out.Range.Start, End: out.Range.End}, total)
		if err != nil {
			log.WithError(err).Warn("scored range out of bounds, using default")
			return def, nil
		}
		return resolved, nil
	default:
		return timerange.Resolve(timerange.Request{Start: in.Start, Length: in.Length}, total)
	}
}

// overlay burns captions into the clip when requested and possible. Burn-in
// failure degrades to the subtitle-less clip: a clip without subtitles beats
// no clip at all.
func (u Usecase) overlay(
	ctx context.Context,
	in Input,
	clip types.MediaArtifact,
	caption *types.CaptionTrack,
	rng timerange.Range,
	tmp *tracker,
	log logrus.FieldLogger,
) (types.MediaArtifact, bool) {
	if !in.BurnSubs || caption == nil {
		return clip, false
	}
	if _, err := os.Stat(caption.Path); err != nil {
		log.WithError(err).Warn("caption file missing, skipping burn-in")
		return clip, false
	}
	cues := subtitles.Rebase(subtitles.ParseSRT(caption.Text), rng.Start, rng.End)
	if len(cues) == 0 {
		log.Info("no caption cues inside clip range, skipping burn-in")
		return clip, false
	}

	localSRT := filepath.Join(in.TempDir, "clip.srt")
	tmp.add(localSRT)
	if err := os.WriteFile(localSRT, []byte(subtitles.RenderSRT(cues)), 0o644); err != nil {
		log.WithError(err).Warn("write clip subtitles failed, keeping clip without subtitles")
		return clip, false
	}

	burnedPath := filepath.Join(in.TempDir, "clip_subs.mp4")
	tmp.add(burnedPath)
	if err := u.d.Video.BurnSubtitles(ctx, clip.Path, localSRT, burnedPath); err != nil {
		log.WithError(err).Warn("subtitle burn-in failed, keeping clip without subtitles")
		return clip, false
	}
	return types.MediaArtifact{Path: burnedPath, Lifecycle: types.LifecycleTemporary}, true
}

func outputName(title string, strategy Strategy, burned bool) string {
	if strategy == ScoredRange {
		if burned {
			return "reel_with_subs.mp4"
		}
		return "reel.mp4"
	}
	return "cut_" + sanitizeTitle(title) + ".mp4"
}

var unsafeTitleRE = regexp.MustCompile(`[^\w\-.]`)

func sanitizeTitle(title string) string {
	s := strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
	s = unsafeTitleRE.ReplaceAllString(s, "")
	if s == "" {
		s = "video"
	}
	return s
}

// moveFile renames, falling back to copy+remove when temp and out dirs sit on
// different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

// tracker records temporary artifacts and deletes each exactly once. Cleanup
// failures are logged, never escalated.
type tracker struct {
	log   logrus.FieldLogger
	paths []string
}

func newTracker(log logrus.FieldLogger) *tracker {
	return &tracker{log: log}
}

func (t *tracker) add(path string) {
	t.paths = append(t.paths, path)
}

func (t *tracker) removeAll() {
	for _, p := range t.paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			t.log.WithError(err).WithField("path", p).Warn("temp cleanup failed")
		}
	}
	t.paths = nil
}
