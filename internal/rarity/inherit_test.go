package rarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubSource returns queued values in order, then repeats the last one.
type stubSource struct {
	values []float64
	idx    int
}

func (s *stubSource) Float64() float64 {
	if s.idx >= len(s.values) {
		return s.values[len(s.values)-1]
	}
	v := s.values[s.idx]
	s.idx++
	return v
}

func TestInherit_SameBranch(t *testing.T) {
	r := NewRoller(&stubSource{values: []float64{0.0, 0.25, 0.499}})

	assert.Equal(t, Rare, r.Inherit(Rare))
	assert.Equal(t, Epic, r.Inherit(Epic))
	assert.Equal(t, Common, r.Inherit(Common))
}

func TestInherit_LowerBranch(t *testing.T) {
	r := NewRoller(&stubSource{values: []float64{0.5, 0.65, 0.799}})

	assert.Equal(t, Uncommon, r.Inherit(Rare))
	assert.Equal(t, SuperRare, r.Inherit(Epic))
	// Clamped at the bottom of the scale.
	assert.Equal(t, Common, r.Inherit(Common))
}

func TestInherit_HigherBranch(t *testing.T) {
	r := NewRoller(&stubSource{values: []float64{0.8, 0.9, 0.999}})

	assert.Equal(t, SuperRare, r.Inherit(Rare))
	assert.Equal(t, Legendary, r.Inherit(Epic))
	// Clamped at the top of the scale.
	assert.Equal(t, Mythical, r.Inherit(Mythical))
}

func TestInherit_AlwaysInRange(t *testing.T) {
	r := NewRoller(NewSeededSource())

	for parent := Common; parent <= Mythical; parent++ {
		for i := 0; i < 1000; i++ {
			child := r.Inherit(parent)
			assert.True(t, child.Valid(), "inherit(%s) produced %d", parent, child)
		}
	}
}

func TestInherit_DistributionConverges(t *testing.T) {
	// Rare has headroom both ways, so no clamping distorts the split.
	const samples = 200_000
	r := NewRoller(NewSeededSource())

	counts := map[Tier]int{}
	for i := 0; i < samples; i++ {
		counts[r.Inherit(Rare)]++
	}

	assert.InDelta(t, 0.50, float64(counts[Rare])/samples, 0.01)
	assert.InDelta(t, 0.30, float64(counts[Uncommon])/samples, 0.01)
	assert.InDelta(t, 0.20, float64(counts[SuperRare])/samples, 0.01)
}

func TestInherit_WithChances(t *testing.T) {
	// Shrink the same-branch so 0.25 falls in the lower branch.
	r := NewRoller(&stubSource{values: []float64{0.25}}, WithChances(0.2, 0.4))
	assert.Equal(t, Uncommon, r.Inherit(Rare))
}

func TestSeededSource_Range(t *testing.T) {
	src := NewSeededSource()
	for i := 0; i < 10_000; i++ {
		v := src.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}
