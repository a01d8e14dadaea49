package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

// Lookup dumps the video's metadata without downloading anything.
func (a *Adapter) Lookup(ctx context.Context, url string) (types.SourceVideo, error) {
	cmd := exec.CommandContext(ctx, a.bin, "-J", "--no-playlist", url)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.SourceVideo{}, fmt.Errorf("%w: yt-dlp metadata: %v\n%s", types.ErrAcquisition, err, stderr.String())
	}
	return parseInfo(url, stdout.Bytes())
}

// Download materializes one format to destPath. The explicit path removes any
// ambiguity about which file the download produced.
func (a *Adapter) Download(ctx context.Context, url, formatID, destPath string) error {
	cmd := exec.CommandContext(ctx, a.bin,
		"-f", formatID,
		"--no-playlist",
		"--no-progress",
		"-o", destPath,
		url,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: yt-dlp download: %v\n%s", types.ErrAcquisition, err, string(b))
	}
	if _, err := os.Stat(destPath); err != nil {
		return fmt.Errorf("%w: downloaded file missing at %s", types.ErrAcquisition, destPath)
	}
	return nil
}

type infoJSON struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
	Formats  []struct {
		FormatID string  `json:"format_id"`
		Ext      string  `json:"ext"`
		Height   int     `json:"height"`
		VCodec   string  `json:"vcodec"`
		ACodec   string  `json:"acodec"`
		URL      string  `json:"url"`
	} `json:"formats"`
	Subtitles         map[string][]captionRefJSON `json:"subtitles"`
	AutomaticCaptions map[string][]captionRefJSON `json:"automatic_captions"`
}

type captionRefJSON struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

func parseInfo(url string, b []byte) (types.SourceVideo, error) {
	var info infoJSON
	if err := json.Unmarshal(b, &info); err != nil {
		return types.SourceVideo{}, fmt.Errorf("%w: parse yt-dlp metadata: %v", types.ErrAcquisition, err)
	}

	sv := types.SourceVideo{
		URL:      url,
		ID:       info.ID,
		Title:    info.Title,
		Duration: time.Duration(info.Duration * float64(time.Second)),
	}
	for _, f := range info.Formats {
		sv.Formats = append(sv.Formats, types.Format{
			ID:     f.FormatID,
			Ext:    f.Ext,
			Height: f.Height,
			VCodec: f.VCodec,
			ACodec: f.ACodec,
			URL:    f.URL,
		})
	}
	sv.Captions = toCaptionRefs(info.Subtitles)
	sv.AutoCaptions = toCaptionRefs(info.AutomaticCaptions)
	return sv, nil
}

func toCaptionRefs(m map[string][]captionRefJSON) map[string][]types.CaptionRef {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]types.CaptionRef, len(m))
	for lang, refs := range m {
		for _, r := range refs {
			out[lang] = append(out[lang], types.CaptionRef{URL: r.URL, Ext: r.Ext})
		}
	}
	return out
}
