package subtitles

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Cue is one subtitle event with source-timeline timestamps.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// ParseSRT reads SubRip text into cues. Malformed blocks are skipped rather
// than failing the whole track; auto-generated captions are messy enough that
// strictness here would reject real-world files.
func ParseSRT(raw string) []Cue {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	blocks := strings.Split(raw, "\n\n")
	var out []Cue
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		var (
			start, end time.Duration
			found      bool
			i          int
		)
		for ; i < len(lines); i++ {
			if s, e, ok := parseTimeLine(lines[i]); ok {
				start, end = s, e
				found = true
				i++
				break
			}
		}
		if !found || end <= start {
			continue
		}
		text := strings.TrimSpace(strings.Join(lines[i:], "\n"))
		if text == "" {
			continue
		}
		out = append(out, Cue{Start: start, End: end, Text: text})
	}
	return out
}

// Rebase shifts cues into clip-local time and drops everything outside the
// clip window. Cue edges are clamped so burn-in never draws past the cut.
func Rebase(cues []Cue, start, end time.Duration) []Cue {
	var out []Cue
	for _, c := range cues {
		if c.End <= start || c.Start >= end {
			continue
		}
		cs, ce := c.Start, c.End
		if cs < start {
			cs = start
		}
		if ce > end {
			ce = end
		}
		out = append(out, Cue{Start: cs - start, End: ce - start, Text: c.Text})
	}
	return out
}

// RenderSRT writes cues back out as SubRip text.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, srtTime(c.Start), srtTime(c.End), c.Text)
	}
	return b.String()
}

var tagRE = regexp.MustCompile(`<[^>]*>`)

// PlainText flattens cue text into a single transcript string for the scoring
// prompt. Markup tags go; consecutive duplicate lines (an auto-caption
// artifact where each line is shown twice) collapse into one.
func PlainText(cues []Cue) string {
	var parts []string
	prev := ""
	for _, c := range cues {
		for _, line := range strings.Split(c.Text, "\n") {
			line = strings.TrimSpace(tagRE.ReplaceAllString(line, ""))
			if line == "" || line == prev {
				continue
			}
			parts = append(parts, line)
			prev = line
		}
	}
	return strings.Join(parts, " ")
}

func parseTimeLine(line string) (time.Duration, time.Duration, bool) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok := parseSRTTime(strings.TrimSpace(parts[0]))
	if !ok {
		return 0, 0, false
	}
	// Trailing cue settings (e.g. WebVTT position hints) are ignored.
	endField := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endField) == 0 {
		return 0, 0, false
	}
	end, ok := parseSRTTime(endField[0])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func parseSRTTime(s string) (time.Duration, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	segs := strings.Split(s, ":")
	if len(segs) != 3 {
		return 0, false
	}
	var h, m int
	var sec float64
	if _, err := fmt.Sscanf(segs[0], "%d", &h); err != nil {
		return 0, false
	}
	if _, err := fmt.Sscanf(segs[1], "%d", &m); err != nil {
		return 0, false
	}
	if _, err := fmt.Sscanf(segs[2], "%f", &sec); err != nil {
		return 0, false
	}
	if h < 0 || m < 0 || sec < 0 {
		return 0, false
	}
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec*float64(time.Second)), true
}

func srtTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	d -= time.Duration(h) * time.Hour
	m := int(d / time.Minute)
	d -= time.Duration(m) * time.Minute
	s := int(d / time.Second)
	d -= time.Duration(s) * time.Second
	ms := int(d / time.Millisecond)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
