package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File mirrors reelcut.yaml. Everything is optional; flags override any value
// set here.
type File struct {
	OutDir        string   `yaml:"out_dir"`
	CacheDir      string   `yaml:"cache_dir"`
	MaxHeight     int      `yaml:"max_height"`
	LengthSec     int      `yaml:"length_sec"`
	Langs         []string `yaml:"langs"`
	BurnSubtitles bool     `yaml:"burn_subtitles"`

	YTDLPPath   string `yaml:"ytdlp_path"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// Load reads the config file at path, or the first one found in standard
// locations when path is empty. A missing file is not an error.
func Load(path string) (File, error) {
	explicit := path != ""
	if path == "" {
		path = findDefault()
		if path == "" {
			return File{}, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}

func findDefault() string {
	locations := []string{
		"./reelcut.yaml",
		"./reelcut.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "reelcut", "config.yaml"),
	}
	for _, p := range locations {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
