package blockcodec

// Stats tracks how many times each block-type byte was actually emitted,
// matching the native library's compression_stat counters. Index is the
// Type value; the array is sized past the highest defined code so it can
// also record the 0x80|k shorthand bucket (see ShortRunBucket).
type Stats struct {
	Count [256]int
}

// ShortRunBucket is the Stats.Count index the stream writer increments for
// every use of the dense 0x80|k zero-block-run shorthand, since individual
// k values aren't worth separate counters.
const ShortRunBucket = 128

// Reset zeroes every counter.
func (s *Stats) Reset() {
	for i := range s.Count {
		s.Count[i] = 0
	}
}

// Total returns the sum of all counters, i.e. the number of block tokens
// written to the stream.
func (s *Stats) Total() int {
	n := 0
	for _, c := range s.Count {
		n += c
	}
	return n
}
