package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/forPelevin/reelcut/internal/config"
	"github.com/forPelevin/reelcut/internal/pipeline"
	"github.com/forPelevin/reelcut/internal/usecase"
)

const (
	defaultLengthSec = 30
	defaultMaxHeight = 480
	runTimeout       = time.Hour
)

func run(cmd *cobra.Command, url string) error {
	configPath, _ := cmd.Flags().GetString("config")
	fileCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(logFile, verbose)

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	if url == "" {
		url, err = promptLine(in, out, "Enter video URL: ")
		if err != nil {
			return err
		}
	}
	if url == "" {
		return errors.New("a source video URL is required")
	}

	auto, _ := cmd.Flags().GetBool("auto")
	endStr, _ := cmd.Flags().GetString("end")
	if auto && endStr != "" {
		return errors.New("--auto and --end cannot be combined")
	}

	startStr, _ := cmd.Flags().GetString("start")
	var start time.Duration
	switch {
	case startStr != "":
		start, err = parseTimeInput(startStr)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	case !auto:
		start, err = promptTime(in, out, "Start time (seconds or minutes:seconds): ")
		if err != nil {
			return err
		}
	}

	strategy := usecase.FixedRange
	var end time.Duration
	switch {
	case auto:
		strategy = usecase.ScoredRange
	case endStr != "":
		strategy = usecase.ExplicitRange
		end, err = parseTimeInput(endStr)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	}

	mode := usecase.ModeLocal
	if remote, _ := cmd.Flags().GetBool("remote"); remote {
		mode = usecase.ModeRemote
	}

	length, _ := cmd.Flags().GetInt("length")
	if length == 0 {
		length = fileCfg.LengthSec
	}
	if length == 0 {
		length = defaultLengthSec
	}

	maxHeight, _ := cmd.Flags().GetInt("max-height")
	if maxHeight == 0 {
		maxHeight = fileCfg.MaxHeight
	}
	if maxHeight == 0 {
		maxHeight = defaultMaxHeight
	}

	langs, _ := cmd.Flags().GetStringSlice("lang")
	if len(langs) == 0 {
		langs = fileCfg.Langs
	}
	if len(langs) == 0 {
		langs = []string{"en", "en-US"}
	}

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = fileCfg.OutDir
	}

	burnSubs, _ := cmd.Flags().GetBool("burn-subs")
	if !cmd.Flags().Changed("burn-subs") {
		burnSubs = fileCfg.BurnSubtitles
	}

	cfg := pipeline.Config{
		URL:      url,
		Strategy: strategy,
		Mode:     mode,

		Start:  start,
		End:    end,
		Length: time.Duration(length) * time.Second,

		MaxHeight:     maxHeight,
		Langs:         langs,
		BurnSubtitles: burnSubs,

		OutDir:   outDir,
		CacheDir: fileCfg.CacheDir,

		YTDLPPath:   fileCfg.YTDLPPath,
		FFmpegPath:  fileCfg.FFmpegPath,
		FFprobePath: fileCfg.FFprobePath,

		OpenRouterAPIKey:       os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:        os.Getenv("OPENROUTER_MODEL"),
		OpenRouterBaseURL:      getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai"),
		OpenRouterAllowedHosts: splitHosts(os.Getenv("OPENROUTER_ALLOWED_HOSTS")),

		Logger: logger,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved clip to %s\n", res.Clip.Path)
	return nil
}

func newLogger(logFile string, verbose bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	if logFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // MB
			MaxBackups: 3,
		}
		logger.SetOutput(io.MultiWriter(os.Stderr, rotating))
	}
	return logger
}

func promptLine(in *bufio.Reader, out io.Writer, msg string) (string, error) {
	fmt.Fprint(out, msg)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptTime re-asks until the input parses, mirroring the interactive loop
// users expect from the original prompt-driven flow.
func promptTime(in *bufio.Reader, out io.Writer, msg string) (time.Duration, error) {
	for {
		line, err := promptLine(in, out, msg)
		if err != nil {
			return 0, err
		}
		d, perr := parseTimeInput(line)
		if perr == nil {
			return d, nil
		}
		fmt.Fprintf(out, "Invalid time %q: use seconds or minutes:seconds\n", line)
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func splitHosts(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
