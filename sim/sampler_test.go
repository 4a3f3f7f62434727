package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketIndex_Boundaries(t *testing.T) {
	tests := []struct {
		value int
		want  int
	}{
		{-4, -1},
		{0, -1},
		{1, -1}, // excluded from the first bucket
		{2, 0},
		{5, 0},
		{6, 1},
		{10, 1},
		{11, 2},
		{60, 11},
		{61, 12},
		{65, 12},
		{66, -1},
		{240, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BucketIndex(tt.value), "BucketIndex(%d)", tt.value)
	}
}

func TestBucketBounds(t *testing.T) {
	lo, hi := BucketBounds(0)
	assert.Equal(t, 2, lo)
	assert.Equal(t, 5, hi)

	lo, hi = BucketBounds(12)
	assert.Equal(t, 61, lo)
	assert.Equal(t, 65, hi)
}

func TestBucketSampler_CompletesExactlyAtThreshold(t *testing.T) {
	// GIVEN a sampler with the default threshold
	s := NewBucketSampler(0)
	assert.Equal(t, DefaultBucketThreshold, s.Threshold())

	// WHEN every bucket but the last receives 12 samples
	for i := 0; i < BucketCount-1; i++ {
		_, hi := BucketBounds(i)
		for n := 0; n < 12; n++ {
			s.Classify(hi)
		}
	}

	// THEN sampling is still incomplete
	assert.True(t, s.Incomplete())

	// WHEN the last bucket receives 11 then 1 more sample
	for n := 0; n < 11; n++ {
		s.Classify(65)
	}
	assert.True(t, s.Incomplete())
	s.Classify(61)

	// THEN sampling is complete and stays complete
	assert.False(t, s.Incomplete())
	s.Classify(1)
	s.Classify(200)
	s.Classify(3)
	assert.False(t, s.Incomplete())
}

func TestBucketSampler_CountsAreMonotonicAndCopied(t *testing.T) {
	s := NewBucketSampler(3)
	prev := s.Counts()
	for _, v := range []int{1, 2, 7, 7, 64, 66, 13, 2} {
		s.Classify(v)
		cur := s.Counts()
		for i := range cur {
			assert.GreaterOrEqual(t, cur[i], prev[i])
		}
		prev = cur
	}

	counts := s.Counts()
	counts[0] = 999
	assert.Equal(t, 2, s.Counts()[0], "Counts must return a copy")
	assert.Equal(t, 2, s.Counts()[1])
	assert.Equal(t, 1, s.Counts()[2])
	assert.Equal(t, 1, s.Counts()[12])
}
