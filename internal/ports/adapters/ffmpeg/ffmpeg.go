package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/reelcut/internal/domain/timerange"
	"github.com/forPelevin/reelcut/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// CutLocal trims an already-downloaded file. The cut point rarely lands on a
// keyframe, so the clip is re-encoded with a broadly compatible codec pair
// instead of stream-copied. The source's real duration is probed here: remote
// metadata can be off by a second or two.
func (a *Adapter) CutLocal(ctx context.Context, inPath, outPath string, r timerange.Range) error {
	total, err := a.ProbeDuration(ctx, inPath)
	if err != nil {
		return err
	}
	if r.Start >= total {
		return fmt.Errorf("%w: start %s, source ends at %s", types.ErrRangeExceedsSource, r.Start, total)
	}
	end := r.End
	if end > total {
		end = total
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inPath,
		"-ss", fmtSeconds(r.Start),
		"-to", fmtSeconds(end),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "aac",
		"-b:a", "192k",
		"-movflags", "+faststart",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg cut: %v\n%s", types.ErrExtraction, err, string(b))
	}
	return nil
}

// CutRemote puts -ss before -i so ffmpeg range-seeks against the remote
// locator and never fetches content outside the window. Stream copy keeps it
// fast; the cut snaps to the nearest preceding keyframe.
func (a *Adapter) CutRemote(ctx context.Context, streamURL, outPath string, r timerange.Range) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-ss", fmtSeconds(r.Start),
		"-i", streamURL,
		"-t", fmtSeconds(r.Length()),
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg remote cut: %v\n%s", types.ErrExtraction, err, string(b))
	}
	return nil
}

// BurnSubtitles composites the SRT into the video pixels via the subtitles
// filter. Audio is already encoded by the cut stage and passes through.
func (a *Adapter) BurnSubtitles(ctx context.Context, inClip, srtPath, outPath string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", inClip,
		"-vf", "subtitles="+escapeFilterPath(srtPath),
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-c:a", "copy",
		outPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: ffmpeg burn-in: %v\n%s", types.ErrOverlay, err, string(b))
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe duration: %v\n%s", types.ErrExtraction, err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration %q: %v", types.ErrExtraction, s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
