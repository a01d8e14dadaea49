package subtitles

import (
	"strings"
	"testing"
	"time"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
Hello there.

2
00:00:04,000 --> 00:00:06,000
<i>Welcome</i> back.

3
00:02:00,000 --> 00:02:05,000
Way later.
`

func TestParseSRT(t *testing.T) {
	cues := ParseSRT(sampleSRT)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[0].Start != time.Second || cues[0].End != 3500*time.Millisecond {
		t.Fatalf("unexpected first cue times: %+v", cues[0])
	}
	if cues[0].Text != "Hello there." {
		t.Fatalf("unexpected first cue text: %q", cues[0].Text)
	}
}

func TestParseSRT_SkipsMalformedBlocks(t *testing.T) {
	raw := "garbage\n\n1\n00:00:01,000 --> 00:00:02,000\nok\n\nnot a time line\njunk\n"
	cues := ParseSRT(raw)
	if len(cues) != 1 || cues[0].Text != "ok" {
		t.Fatalf("expected single valid cue, got %+v", cues)
	}
}

func TestRebase_ClampsAndShifts(t *testing.T) {
	cues := ParseSRT(sampleSRT)
	got := Rebase(cues, 2*time.Second, 10*time.Second)
	if len(got) != 2 {
		t.Fatalf("expected 2 cues inside window, got %d", len(got))
	}
	if got[0].Start != 0 {
		t.Fatalf("expected first cue clamped to clip start, got %s", got[0].Start)
	}
	if got[0].End != 1500*time.Millisecond {
		t.Fatalf("unexpected first cue end: %s", got[0].End)
	}
	if got[1].Start != 2*time.Second {
		t.Fatalf("expected second cue shifted to 2s, got %s", got[1].Start)
	}
}

func TestRebase_EmptyOutsideWindow(t *testing.T) {
	cues := ParseSRT(sampleSRT)
	if got := Rebase(cues, 10*time.Minute, 11*time.Minute); len(got) != 0 {
		t.Fatalf("expected no cues, got %+v", got)
	}
}

func TestRenderSRT_RoundTrips(t *testing.T) {
	in := []Cue{
		{Start: 0, End: 2 * time.Second, Text: "one"},
		{Start: 2500 * time.Millisecond, End: 5 * time.Second, Text: "two"},
	}
	rendered := RenderSRT(in)
	if !strings.Contains(rendered, "00:00:02,500 --> 00:00:05,000") {
		t.Fatalf("unexpected rendering:\n%s", rendered)
	}
	back := ParseSRT(rendered)
	if len(back) != 2 || back[1].Text != "two" {
		t.Fatalf("round trip failed: %+v", back)
	}
}

func TestPlainText_StripsTagsAndDuplicates(t *testing.T) {
	cues := []Cue{
		{Start: 0, End: time.Second, Text: "<c>Hello</c> world"},
		{Start: time.Second, End: 2 * time.Second, Text: "Hello world\nnext line"},
	}
	got := PlainText(cues)
	if got != "Hello world next line" {
		t.Fatalf("unexpected plain text: %q", got)
	}
}

func TestSRTTime_Format(t *testing.T) {
	got := srtTime(61*time.Second + 234*time.Millisecond)
	if got != "00:01:01,234" {
		t.Fatalf("unexpected srtTime: %s", got)
	}
}
