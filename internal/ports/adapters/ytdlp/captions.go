package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/forPelevin/reelcut/internal/types"
)

// FetchCaptions downloads a caption track for the first of langs the service
// offers, converted to SRT. yt-dlp writes <base>.<lang>.srt, so the first
// preference with a file on disk wins. Auto-generated captions are requested
// alongside uploaded ones and act as the last resort for every language.
func (a *Adapter) FetchCaptions(ctx context.Context, url string, langs []string, destDir string) (*types.CaptionTrack, error) {
	if len(langs) == 0 {
		langs = []string{"en"}
	}
	outBase := filepath.Join(destDir, "captions")
	cmd := exec.CommandContext(ctx, a.bin,
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", strings.Join(langs, ","),
		"--convert-subs", "srt",
		"--no-playlist",
		"-o", outBase,
		url,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("yt-dlp captions: %w\n%s", err, string(b))
	}

	for _, lang := range langs {
		p := fmt.Sprintf("%s.%s.srt", outBase, lang)
		raw, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read caption file: %w", err)
		}
		return &types.CaptionTrack{Lang: lang, Path: p, Text: string(raw)}, nil
	}
	return nil, nil
}
