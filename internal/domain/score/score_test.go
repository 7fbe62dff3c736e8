package score

import (
	"math"
	"testing"
	"time"

	"github.com/petalert/petmatch/internal/domain/signal"
)

func set(items ...string) signal.Set {
	s := signal.Set{}
	for _, v := range items {
		s[v] = struct{}{}
	}
	return s
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a    signal.Set
		b    signal.Set
		want float64
	}{
		{"both empty", set(), set(), 0},
		{"left empty", set(), set("dog"), 0},
		{"right empty", set("dog"), set(), 0},
		{"identical", set("dog", "pet"), set("dog", "pet"), 100},
		{"disjoint", set("dog"), set("cat"), 0},
		{"partial overlap", set("dog", "pet"), set("pet", "cat"), 100.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Jaccard(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJaccard_Symmetric(t *testing.T) {
	a := set("dog", "pet", "mammal")
	b := set("pet", "cat")
	if Jaccard(a, b) != Jaccard(b, a) {
		t.Errorf("Jaccard is not symmetric: %v vs %v", Jaccard(a, b), Jaccard(b, a))
	}
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name       string
		distanceKm float64
		maxKm      float64
		want       float64
	}{
		{"zero distance", 0, 10, 100},
		{"negative distance", -1, 10, 100},
		{"at max", 10, 10, 0},
		{"beyond max", 25, 10, 0},
		{"halfway", 5, 10, 50},
		{"quarter", 2.5, 10, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocationScore(tt.distanceKm, tt.maxKm)
			if !almostEqual(got, tt.want) {
				t.Errorf("LocationScore(%v, %v) = %v, want %v", tt.distanceKm, tt.maxKm, got, tt.want)
			}
		})
	}
}

func TestLocationScore_MonotonicDecay(t *testing.T) {
	prev := 101.0
	for d := 0.0; d <= 12; d += 0.5 {
		got := LocationScore(d, 10)
		if got > prev {
			t.Fatalf("score increased from %v to %v at distance %v", prev, got, d)
		}
		prev = got
	}
}

func TestRecencyScore(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"one hour old", time.Hour, 100},
		{"just under two days", 47 * time.Hour, 100},
		{"three days", 72 * time.Hour, 80},
		{"seven days", 7 * 24 * time.Hour, 80},
		{"eight days", 8 * 24 * time.Hour, 60},
		{"thirty days", 30 * 24 * time.Hour, 60},
		{"thirty one days", 31 * 24 * time.Hour, 40},
		{"a year", 365 * 24 * time.Hour, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecencyScore(now.Add(-tt.age), now)
			if got != tt.want {
				t.Errorf("RecencyScore(age=%v) = %v, want %v", tt.age, got, tt.want)
			}
		})
	}
}

func TestRecencyScore_ZeroTime(t *testing.T) {
	if got := RecencyScore(time.Time{}, time.Now()); got != 50 {
		t.Errorf("RecencyScore(zero) = %v, want 50", got)
	}
}

func TestOverlapScore(t *testing.T) {
	tests := []struct {
		name       string
		overlap    int
		distanceKm float64
		want       float64
	}{
		{"no overlap no distance", 0, 0, 0},
		{"overlap only", 3, 0, 30},
		{"distance penalty", 3, 5, 29},
		{"penalty exceeds reward", 0, 10, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverlapScore(tt.overlap, tt.distanceKm)
			if !almostEqual(got, tt.want) {
				t.Errorf("OverlapScore(%d, %v) = %v, want %v", tt.overlap, tt.distanceKm, got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.want) {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{0.3, 0.5, 0.2}
	b := []float32{0.6, 1.0, 0.4}
	if got := CosineSimilarity(a, b); !almostEqual(got, 1) {
		t.Errorf("CosineSimilarity(v, 2v) = %v, want 1", got)
	}
}

func TestComposite(t *testing.T) {
	if got := Composite(100, 100, 100, 100); !almostEqual(got, 100) {
		t.Errorf("Composite(all 100) = %v, want 100", got)
	}
	if got := Composite(0, 0, 0, 0); got != 0 {
		t.Errorf("Composite(all 0) = %v, want 0", got)
	}
	// 80*0.4 + 60*0.3 + 40*0.2 + 20*0.1 = 60
	if got := Composite(80, 60, 40, 20); !almostEqual(got, 60) {
		t.Errorf("Composite(80, 60, 40, 20) = %v, want 60", got)
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		composite float64
		want      Tier
	}{
		{100, TierHigh},
		{70, TierHigh},
		{69.9, TierMedium},
		{50, TierMedium},
		{49.9, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		if got := TierFor(tt.composite); got != tt.want {
			t.Errorf("TierFor(%v) = %q, want %q", tt.composite, got, tt.want)
		}
	}
}

func TestAnalysisConfidence(t *testing.T) {
	tests := []struct {
		labels int
		want   Tier
	}{
		{10, TierHigh},
		{5, TierHigh},
		{4, TierMedium},
		{3, TierMedium},
		{2, TierLow},
		{0, TierLow},
	}

	for _, tt := range tests {
		if got := AnalysisConfidence(tt.labels); got != tt.want {
			t.Errorf("AnalysisConfidence(%d) = %q, want %q", tt.labels, got, tt.want)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{1.2345, 2, 1.23},
		{1.235, 2, 1.24},
		{1.2345, 1, 1.2},
		{99.999, 3, 99.999},
		{-1.255, 2, -1.25},
	}

	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
