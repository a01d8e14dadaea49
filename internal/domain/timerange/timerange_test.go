package timerange

import (
	"errors"
	"testing"
	"time"

	"github.com/forPelevin/reelcut/internal/types"
)

func TestResolve_FixedLength(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		total   time.Duration
		want    Range
		wantErr bool
	}{
		{
			name:  "inside duration",
			req:   Request{Start: 120 * time.Second, Length: 30 * time.Second},
			total: 600 * time.Second,
			want:  Range{Start: 120 * time.Second, End: 150 * time.Second},
		},
		{
			name:  "end clamped to duration",
			req:   Request{Start: 5 * time.Second, Length: 30 * time.Second},
			total: 10 * time.Second,
			want:  Range{Start: 5 * time.Second, End: 10 * time.Second},
		},
		{
			name:    "start beyond duration",
			req:     Request{Start: 700 * time.Second, Length: 30 * time.Second},
			total:   600 * time.Second,
			wantErr: true,
		},
		{
			name:    "start at duration clamps to empty",
			req:     Request{Start: 600 * time.Second, Length: 30 * time.Second},
			total:   600 * time.Second,
			wantErr: true,
		},
		{
			name:    "negative start",
			req:     Request{Start: -time.Second, Length: 30 * time.Second},
			total:   600 * time.Second,
			wantErr: true,
		},
		{
			name:    "zero length",
			req:     Request{Start: 10 * time.Second},
			total:   600 * time.Second,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.req, tt.total)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				if !errors.Is(err, types.ErrRangeInvalid) {
					t.Fatalf("expected ErrRangeInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_ExplicitEnd(t *testing.T) {
	got, err := Resolve(Request{Start: 10 * time.Second, End: 700 * time.Second}, 600*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.End != 600*time.Second {
		t.Fatalf("expected end clamped to 600s, got %s", got.End)
	}
	if got.Length() != 590*time.Second {
		t.Fatalf("unexpected length: %s", got.Length())
	}
}

func TestResolve_EndBeforeStart(t *testing.T) {
	_, err := Resolve(Request{Start: 20 * time.Second, End: 10 * time.Second}, 600*time.Second)
	if !errors.Is(err, types.ErrRangeInvalid) {
		t.Fatalf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestResolve_UnknownDurationSkipsClamp(t *testing.T) {
	got, err := Resolve(Request{Start: 120 * time.Second, Length: 30 * time.Second}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.End != 150*time.Second {
		t.Fatalf("expected unclamped end 150s, got %s", got.End)
	}
}
