//go:build integration

package itest

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/forPelevin/reelcut/internal/pipeline"
	"github.com/forPelevin/reelcut/internal/usecase"
)

// TestE2E cuts a real clip end to end. It needs yt-dlp and ffmpeg on PATH and
// a source video supplied via REELCUT_E2E_URL (pick something short).
func TestE2E(t *testing.T) {
	url := os.Getenv("REELCUT_E2E_URL")
	if url == "" {
		t.Skip("REELCUT_E2E_URL is not set")
	}

	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")
	cacheDir := filepath.Join(tmp, "cache")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	cfg := pipeline.Config{
		URL:       url,
		Strategy:  usecase.FixedRange,
		Mode:      usecase.ModeLocal,
		Start:     2 * time.Second,
		Length:    5 * time.Second,
		MaxHeight: 360,
		Langs:     []string{"en"},
		OutDir:    outDir,
		CacheDir:  cacheDir,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	if _, err := os.Stat(res.Clip.Path); err != nil {
		t.Fatalf("missing clip: %v", err)
	}
	manifest := strings.TrimSuffix(res.Clip.Path, filepath.Ext(res.Clip.Path)) + ".json"
	if _, err := os.Stat(manifest); err != nil {
		t.Fatalf("missing manifest: %v", err)
	}

	sec, err := probeDurationSeconds(res.Clip.Path)
	if err != nil {
		t.Fatalf("probe clip: %v", err)
	}
	if math.Abs(sec-5) > 1 {
		t.Fatalf("clip duration %.2fs, want ~5s", sec)
	}

	// Scratch dirs must not survive the run.
	runs, err := os.ReadDir(filepath.Join(cacheDir, "runs"))
	if err == nil && len(runs) > 0 {
		t.Fatalf("scratch dirs left behind: %d", len(runs))
	}
}
