package entropy

import (
	"math/bits"

	"github.com/hupe1980/bmserial/bitio"
)

// bicWidth computes the center-minimal bit width for the free span r
// (r = hi-lo-sz+1, the number of positions a value could slide into once its
// neighbours are fixed) together with the two thresholds that decide whether
// an extra bit is needed to break the tie at the centre of that span. Callers
// pass r as the spread between the minimum-width and maximum-width binary
// codes that can address r+1 distinct values; lo1/hi1 bound the "short code"
// zone symmetrically around the middle.
func bicWidth(r uint32) (logv uint, lo1, hi1 int64) {
	n := r + 1
	logv = uint(bits.Len32(n)) - 1
	c := (uint64(1) << (logv + 1)) - uint64(n)
	halfC := int64(c >> 1)
	halfR := int64(r >> 1)
	lo1 = halfR - halfC - int64((r+1)&1)
	hi1 = halfR + halfC
	return
}

// EncodeInterpolative16 writes the strictly increasing array arr[0:sz],
// every element in [lo,hi], using center-minimal Binary Interpolative
// Coding. arr must already hold sz valid entries; only arr[0:sz] is read.
func EncodeInterpolative16(w *bitio.BitWriter, arr []uint16, sz int, lo, hi uint16) {
	for sz > 0 {
		midIdx := sz >> 1
		val := arr[midIdx]

		r := uint32(hi) - uint32(lo) - uint32(sz) + 1
		if r != 0 {
			logv, lo1, hi1 := bicWidth(r)
			value := uint32(val) - uint32(lo) - uint32(midIdx)
			width := logv
			if int64(value) <= lo1 || int64(value) > hi1 {
				width++
			}
			w.PutBits(value, width)
		}

		EncodeInterpolative16(w, arr, midIdx, lo, val-1)
		arr = arr[midIdx+1:]
		sz -= midIdx + 1
		lo = val + 1
	}
}

// DecodeInterpolative16 is the materializing decoder counterpart of
// EncodeInterpolative16: it fills dst[0:sz] with the original array.
func DecodeInterpolative16(r *bitio.BitReader, dst []uint16, sz int, lo, hi uint16) {
	for sz > 0 {
		val := bicReadOne(r, sz, lo, hi)
		midIdx := sz >> 1
		dst[midIdx] = val

		if sz == 1 {
			return
		}

		DecodeInterpolative16(r, dst, midIdx, lo, val-1)
		dst = dst[midIdx+1:]
		sz -= midIdx + 1
		lo = val + 1
	}
}

// DecodeInterpolative16Into is the OR-into-bitblock decoder counterpart of
// EncodeInterpolative16: instead of materializing the array it sets the
// corresponding bit in a 2048-word (65536-bit) block for every decoded
// value.
func DecodeInterpolative16Into(r *bitio.BitReader, block []uint32, sz int, lo, hi uint16) {
	for sz > 0 {
		val := bicReadOne(r, sz, lo, hi)
		block[val>>5] |= uint32(1) << (val & 31)

		if sz == 1 {
			return
		}

		midIdx := sz >> 1
		DecodeInterpolative16Into(r, block, midIdx, lo, val-1)
		sz -= midIdx + 1
		lo = val + 1
	}
}

// SkipInterpolative16 advances r past a BIC-coded array without
// materializing it, used by blockcodec.SkipBlock to skip blocks a set
// operation has already decided it can discard.
func SkipInterpolative16(r *bitio.BitReader, sz int, lo, hi uint16) {
	for sz > 0 {
		val := bicReadOne(r, sz, lo, hi)

		if sz == 1 {
			return
		}

		midIdx := sz >> 1
		SkipInterpolative16(r, midIdx, lo, val-1)
		sz -= midIdx + 1
		lo = val + 1
	}
}

// bicReadOne decodes the single value at index sz>>1 of the current
// [lo,hi] span, consuming whatever bits EncodeInterpolative16 wrote for it.
// It does not recurse; callers are responsible for descending into the
// left and right sub-spans afterwards.
func bicReadOne(r *bitio.BitReader, sz int, lo, hi uint16) uint16 {
	midIdx := sz >> 1

	rSpan := uint32(hi) - uint32(lo) - uint32(sz) + 1
	var val uint32
	if rSpan != 0 {
		logv, lo1, hi1 := bicWidth(rSpan)
		hi1++ // decoder's tie-break boundary is the encoder's hi1+1

		val = r.GetBits(logv)
		if int64(val) <= lo1 || int64(val) >= hi1 {
			val += r.GetBit() << logv
		}
	}

	return uint16(val) + lo + uint16(midIdx)
}

// EncodeInterpolative32 is the 32-bit-domain counterpart of
// EncodeInterpolative16, for values that do not fit in 16 bits. No block
// model in blockcodec emits it.
func EncodeInterpolative32(w *bitio.BitWriter, arr []uint32, sz int, lo, hi uint32) {
	for sz > 0 {
		midIdx := sz >> 1
		val := arr[midIdx]

		r := hi - lo - uint32(sz) + 1
		if r != 0 {
			logv, lo1, hi1 := bicWidth(r)
			value := val - lo - uint32(midIdx)
			width := logv
			if int64(value) <= lo1 || int64(value) > hi1 {
				width++
			}
			w.PutBits(value, width)
		}

		EncodeInterpolative32(w, arr, midIdx, lo, val-1)
		arr = arr[midIdx+1:]
		sz -= midIdx + 1
		lo = val + 1
	}
}

// DecodeInterpolative32 is the materializing decoder counterpart of
// EncodeInterpolative32.
func DecodeInterpolative32(r *bitio.BitReader, dst []uint32, sz int, lo, hi uint32) {
	for sz > 0 {
		val := bicReadOne32(r, sz, lo, hi)
		midIdx := sz >> 1
		dst[midIdx] = val

		if sz == 1 {
			return
		}

		DecodeInterpolative32(r, dst, midIdx, lo, val-1)
		dst = dst[midIdx+1:]
		sz -= midIdx + 1
		lo = val + 1
	}
}

func bicReadOne32(r *bitio.BitReader, sz int, lo, hi uint32) uint32 {
	midIdx := sz >> 1

	rSpan := hi - lo - uint32(sz) + 1
	var val uint32
	if rSpan != 0 {
		logv, lo1, hi1 := bicWidth(rSpan)
		hi1++

		val = r.GetBits(logv)
		if int64(val) <= lo1 || int64(val) >= hi1 {
			val += r.GetBit() << logv
		}
	}

	return val + lo + uint32(midIdx)
}
