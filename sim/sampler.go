package sim

const (
	// BucketCount is the number of fixed-width histogram buckets.
	BucketCount = 13
	// BucketWidth is the span of burst quanta covered by one bucket.
	BucketWidth = 5
	// DefaultBucketThreshold is the per-bucket sample count at which sampling is sufficient.
	DefaultBucketThreshold = 12
)

// BucketSampler classifies dispatched burst values into BucketCount buckets
// and acts as the stopping oracle of every dispatch run.
// Bucket i covers (5i, 5i+5]; the value 1 is excluded, so the ranges are
// 2-5, 6-10, ..., 61-65. Values outside 2..65 are not counted.
type BucketSampler struct {
	counts    [BucketCount]int
	threshold int
}

// NewBucketSampler creates a sampler that is satisfied once every bucket holds
// at least threshold samples. A threshold < 1 falls back to DefaultBucketThreshold.
func NewBucketSampler(threshold int) *BucketSampler {
	if threshold < 1 {
		threshold = DefaultBucketThreshold
	}
	return &BucketSampler{threshold: threshold}
}

// BucketIndex returns the bucket for value, or -1 when the value is not counted.
func BucketIndex(value int) int {
	if value <= 1 || value > BucketCount*BucketWidth {
		return -1
	}
	return (value - 1) / BucketWidth
}

// BucketBounds returns the inclusive [lower, upper] burst range of bucket i.
func BucketBounds(i int) (lower, upper int) {
	lower = i*BucketWidth + 1
	if i == 0 {
		lower = 2
	}
	return lower, (i + 1) * BucketWidth
}

// Classify counts value in its bucket. Out-of-range values are ignored.
func (b *BucketSampler) Classify(value int) {
	if i := BucketIndex(value); i >= 0 {
		b.counts[i]++
	}
}

// Incomplete reports whether any bucket is still below the threshold.
func (b *BucketSampler) Incomplete() bool {
	for _, c := range b.counts {
		if c < b.threshold {
			return true
		}
	}
	return false
}

// Counts returns a copy of the bucket counters in ascending bucket order.
func (b *BucketSampler) Counts() []int {
	out := make([]int, BucketCount)
	copy(out, b.counts[:])
	return out
}

// Threshold returns the per-bucket sample target.
func (b *BucketSampler) Threshold() int {
	return b.threshold
}
