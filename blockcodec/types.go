// Package blockcodec implements the per-block model selector (C4), block
// encoder (C5), and block decoder (C6): given one 65536-bit bitvector.Block,
// choose the cheapest of the representations enumerated below that fits the
// configured compression level, emit it with rollback to the plain form on
// size regression, and invert that mapping on decode.
package blockcodec

// Type is a block-type byte as it appears on the wire. Codes 0-34 are
// defined; a byte with its top bit set (0x80|k, 2<=k<128) is the
// "advance k zero-blocks" shorthand and is handled by the caller before it
// ever reaches DecodeBlock.
type Type byte

const (
	End         Type = 0
	OneZero     Type = 1
	OneOne      Type = 2
	Zero8       Type = 3
	One8        Type = 4
	Zero16      Type = 5
	One16       Type = 6
	Zero32      Type = 7
	One32       Type = 8
	AllZero     Type = 9  // azero: all remaining blocks are zero
	AllOne      Type = 10 // aone: all remaining blocks are one
	BitPlain    Type = 11
	GapPlain    Type = 14
	GapBitLegacy Type = 15 // never emitted; DecodeBlock rejects it with a FormatError, see DESIGN.md
	ArrBit      Type = 16
	BitInterval Type = 17
	ArrGap      Type = 18
	Bit1Bit     Type = 19
	GapEGamma   Type = 20
	ArrGapEGamma    Type = 21
	BitZeroRuns     Type = 22
	ArrGapEGammaInv Type = 23
	ArrGapInv       Type = 24
	Zero64          Type = 25
	One64           Type = 26
	GapBIEnc        Type = 27
	ArrGapBIEnc     Type = 28
	ArrGapBIEncInv  Type = 29
	ArrBitInv       Type = 30
	ArrBIEnc        Type = 31
	ArrBIEncInv     Type = 32
	BitGapBIEnc     Type = 33
	BitDigest0      Type = 34

	// monoShortRunMask marks a byte as the dense 7-bit "advance k
	// zero-blocks" shorthand (0x80|k, 2<=k<128).
	monoShortRunMask byte = 0x80
)

// IsMonoShortRun reports whether b is the dense zero-block-run shorthand,
// returning the run length k if so.
func IsMonoShortRun(b byte) (k int, ok bool) {
	if b&monoShortRunMask == 0 {
		return 0, false
	}
	k = int(b &^ monoShortRunMask)
	if k < 2 || k >= 128 {
		return 0, false
	}
	return k, true
}

// EncodeMonoShortRun packs a 2..127 zero-block run into the dense shorthand
// byte. Callers must check 2 <= k < 128 themselves; use Zero8/16/32/64 for
// runs outside that range.
func EncodeMonoShortRun(k int) byte {
	return monoShortRunMask | byte(k)
}
