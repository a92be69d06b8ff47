package model

import (
	"encoding/json"
	"fmt"
)

// Band represents the qualitative rating attached to a bounded score.
// Every score in the report is an integer in [0, 100] with an associated
// band so that consumers never need to re-derive thresholds.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Band int

const (
	// BandPoor indicates a score below 40.
	BandPoor Band = iota

	// BandFair indicates a score in [40, 60).
	BandFair

	// BandGood indicates a score in [60, 80).
	BandGood

	// BandExcellent indicates a score of 80 or higher.
	BandExcellent
)

// String returns a human-readable representation of the band.
func (b Band) String() string {
	switch b {
	case BandPoor:
		return "Poor"
	case BandFair:
		return "Fair"
	case BandGood:
		return "Good"
	case BandExcellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

// MarshalJSON serializes the band as its display string so reports
// remain readable without a lookup table.
func (b Band) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON parses the display-string form written by MarshalJSON,
// so stored reports round-trip through JSON.
func (b *Band) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("band must be a string: %w", err)
	}

	switch s {
	case "Poor":
		*b = BandPoor
	case "Fair":
		*b = BandFair
	case "Good":
		*b = BandGood
	case "Excellent":
		*b = BandExcellent
	default:
		return fmt.Errorf("unknown band %q", s)
	}
	return nil
}

// BandForScore maps a score to its band using the documented thresholds:
// >=80 Excellent, >=60 Good, >=40 Fair, else Poor.
func BandForScore(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandPoor
	}
}

// ClampScore bounds a score to the valid [0, 100] range.
// All scoring analyzers call this before storing a score so the
// range invariant holds even on zero-signal pages.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// MaxRecommendations is the cap on human-readable issue strings attached
// to any single score. Long recommendation lists add noise, not signal.
const MaxRecommendations = 10

// CapStrings truncates a string slice to at most n entries.
func CapStrings(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
