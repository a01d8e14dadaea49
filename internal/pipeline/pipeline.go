package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/forPelevin/reelcut/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/reelcut/internal/ports/adapters/openrouter"
	"github.com/forPelevin/reelcut/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/reelcut/internal/usecase"
)

type Config struct {
	URL      string
	Strategy usecase.Strategy
	Mode     usecase.Mode

	Start  time.Duration
	End    time.Duration
	Length time.Duration

	MaxHeight     int
	Langs         []string
	BurnSubtitles bool

	// OutDir receives the final clip; defaults to "downloads".
	OutDir string
	// CacheDir is the base for per-run scratch directories. Defaults to ".cache".
	CacheDir string

	YTDLPPath   string
	FFmpegPath  string
	FFprobePath string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string

	Logger *logrus.Logger
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return errors.New("source url is empty")
	}
	switch c.Strategy {
	case usecase.FixedRange, usecase.ScoredRange, usecase.ExplicitRange:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	switch c.Mode {
	case usecase.ModeLocal, usecase.ModeRemote:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Start < 0 {
		return fmt.Errorf("start must be >= 0")
	}
	if c.Strategy == usecase.ExplicitRange {
		if c.End <= c.Start {
			return fmt.Errorf("end must be after start")
		}
	} else if c.Length <= 0 {
		return fmt.Errorf("length must be > 0")
	}
	if c.MaxHeight <= 0 {
		return fmt.Errorf("max height must be > 0")
	}
	if c.Strategy == usecase.ScoredRange {
		if c.OpenRouterAPIKey == "" {
			return errors.New("OPENROUTER_API_KEY is required for automatic range selection")
		}
		return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
	}
	return nil
}

// Manifest is the run record written next to the final clip.
type Manifest struct {
	URL             string  `json:"url"`
	Title           string  `json:"title"`
	StartSec        float64 `json:"start_sec"`
	EndSec          float64 `json:"end_sec"`
	Strategy        string  `json:"strategy"`
	Mode            string  `json:"mode"`
	File            string  `json:"file"`
	SubtitlesBurned bool    `json:"subtitles_burned"`
}

func Run(ctx context.Context, cfg Config) (usecase.Result, error) {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "downloads"
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return usecase.Result{}, err
	}

	baseCache := cfg.CacheDir
	if baseCache == "" {
		baseCache = ".cache"
	}
	// A fresh UUID per run keeps intermediates isolated when several runs
	// share a working directory.
	tempDir := filepath.Join(baseCache, "runs", uuid.NewString())
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return usecase.Result{}, err
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			log.WithError(err).WithField("path", tempDir).Warn("scratch dir cleanup failed")
		}
	}()
	log.WithField("path", tempDir).Debug("prepared scratch dir")

	media := ytdlp.New(cfg.YTDLPPath)
	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	scorer := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)

	uc := usecase.New(usecase.Deps{
		Media:    media,
		Captions: media,
		Scorer:   scorer,
		Video:    video,
	})

	res, err := uc.Run(ctx, usecase.Input{
		URL:       cfg.URL,
		Strategy:  cfg.Strategy,
		Mode:      cfg.Mode,
		Start:     cfg.Start,
		End:       cfg.End,
		Length:    cfg.Length,
		MaxHeight: cfg.MaxHeight,
		Langs:     cfg.Langs,
		BurnSubs:  cfg.BurnSubtitles,
		TempDir:   tempDir,
		OutDir:    outDir,
		Log:       log,
	})
	if err != nil {
		return usecase.Result{}, err
	}

	m := Manifest{
		URL:             cfg.URL,
		Title:           res.Title,
		StartSec:        res.Range.Start.Seconds(),
		EndSec:          res.Range.End.Seconds(),
		Strategy:        string(cfg.Strategy),
		Mode:            string(cfg.Mode),
		File:            filepath.Base(res.Clip.Path),
		SubtitlesBurned: res.Burned,
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return usecase.Result{}, fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := strings.TrimSuffix(res.Clip.Path, filepath.Ext(res.Clip.Path)) + ".json"
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return usecase.Result{}, err
	}
	log.WithFields(logrus.Fields{"clip": res.Clip.Path, "manifest": manifestPath}).Info("clip ready")
	return res, nil
}
