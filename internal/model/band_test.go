package model

import (
	"encoding/json"
	"testing"
)

// TestBandForScore tests the score-to-band thresholds.
func TestBandForScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score int
		want  Band
	}{
		{name: "zero is Poor", score: 0, want: BandPoor},
		{name: "39 is Poor", score: 39, want: BandPoor},
		{name: "40 is Fair", score: 40, want: BandFair},
		{name: "59 is Fair", score: 59, want: BandFair},
		{name: "60 is Good", score: 60, want: BandGood},
		{name: "79 is Good", score: 79, want: BandGood},
		{name: "80 is Excellent", score: 80, want: BandExcellent},
		{name: "100 is Excellent", score: 100, want: BandExcellent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BandForScore(tt.score); got != tt.want {
				t.Errorf("BandForScore(%d) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

// TestBand_String tests the display names.
func TestBand_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		band Band
		want string
	}{
		{BandPoor, "Poor"},
		{BandFair, "Fair"},
		{BandGood, "Good"},
		{BandExcellent, "Excellent"},
		{Band(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := tt.band.String(); got != tt.want {
				t.Errorf("Band.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestBand_MarshalJSON tests that bands serialize as display strings.
func TestBand_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := BandGood.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"Good"` {
		t.Errorf("MarshalJSON() = %s, want %q", data, `"Good"`)
	}
}

// TestBand_UnmarshalJSON tests parsing the display-string form back,
// including inside a struct field.
func TestBand_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	for _, band := range []Band{BandPoor, BandFair, BandGood, BandExcellent} {
		t.Run(band.String(), func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(band)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}

			var got Band
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", data, err)
			}
			if got != band {
				t.Errorf("round trip = %v, want %v", got, band)
			}
		})
	}

	t.Run("unknown string rejected", func(t *testing.T) {
		t.Parallel()

		var got Band
		if err := json.Unmarshal([]byte(`"Superb"`), &got); err == nil {
			t.Error("Unmarshal accepted an unknown band")
		}
	})

	t.Run("non-string rejected", func(t *testing.T) {
		t.Parallel()

		var got Band
		if err := json.Unmarshal([]byte(`3`), &got); err == nil {
			t.Error("Unmarshal accepted a number")
		}
	})
}

// TestClampScore tests score clamping to [0, 100].
func TestClampScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score int
		want  int
	}{
		{name: "negative clamps to zero", score: -10, want: 0},
		{name: "zero stays", score: 0, want: 0},
		{name: "mid-range stays", score: 55, want: 55},
		{name: "hundred stays", score: 100, want: 100},
		{name: "over a hundred clamps", score: 130, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ClampScore(tt.score); got != tt.want {
				t.Errorf("ClampScore(%d) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

// TestCapStrings tests slice truncation.
func TestCapStrings(t *testing.T) {
	t.Parallel()

	list := []string{"a", "b", "c", "d"}

	if got := CapStrings(list, 2); len(got) != 2 {
		t.Errorf("CapStrings() returned %d entries, want 2", len(got))
	}
	if got := CapStrings(list, 10); len(got) != 4 {
		t.Errorf("CapStrings() returned %d entries, want 4", len(got))
	}
}
