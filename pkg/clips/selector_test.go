package clips

import (
	"errors"
	"math"
	"testing"
)

// TestPickEmptyList 测试对空列表选择返回 ErrEmptyCandidateSet
func TestPickEmptyList(t *testing.T) {
	s := NewSeededSelector(1)

	_, err := s.Pick(nil)
	if !errors.Is(err, ErrEmptyCandidateSet) {
		t.Errorf("Expected ErrEmptyCandidateSet, got %v", err)
	}

	_, err = s.Pick(ClipList{})
	if !errors.Is(err, ErrEmptyCandidateSet) {
		t.Errorf("Expected ErrEmptyCandidateSet for empty list, got %v", err)
	}
}

// TestPickZeroTotalWeight 测试所有条目权重 <= 0 时选择失败
func TestPickZeroTotalWeight(t *testing.T) {
	s := NewSeededSelector(1)

	list := ClipList{
		{ID: "a", Weight: -1},
		{ID: "b", Weight: -5},
	}
	_, err := s.Pick(list)
	if !errors.Is(err, ErrEmptyCandidateSet) {
		t.Errorf("Expected ErrEmptyCandidateSet for zero total weight, got %v", err)
	}
}

// TestPickSingleEntry 测试单条目列表总是返回该条目
func TestPickSingleEntry(t *testing.T) {
	s := NewSeededSelector(42)

	list := ClipList{{ID: "only", Weight: 10}}
	for i := 0; i < 100; i++ {
		d, err := s.Pick(list)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		if d.ID != "only" {
			t.Fatalf("Expected ID=only, got %q", d.ID)
		}
	}
}

// TestPickNegativeWeightNeverSelected 测试负权重条目永远不会被选中
func TestPickNegativeWeightNeverSelected(t *testing.T) {
	s := NewSeededSelector(7)

	list := ClipList{
		{ID: "never", Weight: -10},
		{ID: "always", Weight: 5},
		{ID: "never2", Weight: -1},
	}
	for i := 0; i < 1000; i++ {
		d, err := s.Pick(list)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		if d.ID != "always" {
			t.Fatalf("Negative-weight entry %q was selected", d.ID)
		}
	}
}

// TestPickWeightDistribution 测试大量选择后各条目的占比收敛到权重占比
// 权重 1:3 的两个条目选择 10000 次，应接近 25%/75%
func TestPickWeightDistribution(t *testing.T) {
	s := NewSeededSelector(12345)

	list := ClipList{
		{ID: "light", Weight: 1},
		{ID: "heavy", Weight: 3},
	}

	const trials = 10000
	counts := make(map[string]int)
	for i := 0; i < trials; i++ {
		d, err := s.Pick(list)
		if err != nil {
			t.Fatalf("Pick failed: %v", err)
		}
		counts[d.ID]++
	}

	lightRatio := float64(counts["light"]) / trials
	if math.Abs(lightRatio-0.25) > 0.02 {
		t.Errorf("Expected light ratio ~0.25, got %.4f (light=%d heavy=%d)",
			lightRatio, counts["light"], counts["heavy"])
	}
}

// TestPickDeterministic 测试固定种子下选择序列完全可复现
func TestPickDeterministic(t *testing.T) {
	list := ClipList{
		{ID: "a", Weight: 2},
		{ID: "b", Weight: 5},
		{ID: "c", Weight: 3},
	}

	s1 := NewSeededSelector(99)
	s2 := NewSeededSelector(99)
	for i := 0; i < 200; i++ {
		d1, err1 := s1.Pick(list)
		d2, err2 := s2.Pick(list)
		if err1 != nil || err2 != nil {
			t.Fatalf("Pick failed: %v / %v", err1, err2)
		}
		if d1.ID != d2.ID {
			t.Fatalf("Same seed diverged at trial %d: %q vs %q", i, d1.ID, d2.ID)
		}
	}
}
