package entropy

import (
	"math/bits"

	"github.com/hupe1980/bmserial/bitio"
)

// EncodeGamma writes v using Elias-Gamma coding. v must be >= 1.
func EncodeGamma(w *bitio.BitWriter, v uint32) {
	if v == 0 {
		panic("entropy: gamma code is defined only for v >= 1")
	}
	n := uint(bits.Len32(v)) - 1 // floor(log2 v)
	w.PutZeroBits(int(n))
	w.PutBit(1)
	if n > 0 {
		w.PutBits(v, n)
	}
}

// DecodeGamma reads one Elias-Gamma coded value.
func DecodeGamma(r *bitio.BitReader) uint32 {
	n := uint(0)
	for r.GetBit() == 0 {
		n++
	}
	if n == 0 {
		return 1
	}
	extra := r.GetBits(n)
	return (1 << n) | extra
}

// GammaBitLength returns the number of bits EncodeGamma would emit for v,
// without encoding it.
func GammaBitLength(v uint32) int {
	if v < 1 {
		v = 1
	}
	n := bits.Len32(v) - 1
	return 2*n + 1
}

// SkipGamma advances r past one Elias-Gamma coded value without
// materializing it.
func SkipGamma(r *bitio.BitReader) {
	n := uint(0)
	for r.GetBit() == 0 {
		n++
	}
	if n > 0 {
		r.SkipBits(int(n))
	}
}
