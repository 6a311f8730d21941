package blockcodec

import (
	"math/rand"
	"testing"

	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/bitvector"
)

// encodeDirect writes a specific candidate type directly, bypassing
// SelectModel/EncodeBlock's rollback, so decode tests exercise each model's
// wire format in isolation.
func encodeDirect(t *testing.T, b *bitvector.Block, typ Type) []byte {
	t.Helper()
	buf := make([]byte, 1+plainPayloadBytes+64)
	bw := bitio.NewByteWriter(buf)
	bw.Put8(byte(typ))
	encodeCandidateBody(bw, b, typ)
	return bw.Bytes()
}

// encodeCandidateBody writes the payload a given type needs after a type
// byte the caller has already written. encode.go's per-type writers each
// emit their own tag byte, so it rewinds over the caller's tag and lets
// encodeCandidate write tag and payload again, instead of reimplementing
// those writers.
func encodeCandidateBody(bw *bitio.ByteWriter, b *bitvector.Block, typ Type) {
	mark := bw.Pos() - 1 // rewind over the tag byte encodeCandidate will rewrite
	bw.SetPos(mark)
	encodeCandidate(bw, b, typ)
}

func TestDecodeBlockEachModelRoundTrips(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	dense := bitvector.NewBitBlock()
	for i := 0; i < bitvector.BitsPerBlock; i += 3 {
		dense.Set(uint16(i))
	}

	sparse := bitvector.NewBitBlock()
	for _, p := range []uint16{0, 1, 2, 65533, 65534, 65535} {
		sparse.Set(p)
	}

	almostFull := bitvector.NewBitBlock()
	for i := range almostFull.Words {
		almostFull.Words[i] = 0xFFFFFFFF
	}
	for _, p := range []uint16{100, 200, 300, 400, 500} {
		almostFull.Clear(p)
	}

	cases := []struct {
		name string
		typ  Type
		b    *bitvector.Block
	}{
		{"plain/dense", BitPlain, dense},
		{"bit1bit", Bit1Bit, blockFromBits([]uint16{777})},
		{"digest0/sparse", BitDigest0, sparse},
		{"gapplain/sparse", GapPlain, sparse},
		{"gapegamma/sparse", GapEGamma, sparse},
		{"gapbienc/sparse", GapBIEnc, sparse},
		{"arrgap/sparse", ArrGap, sparse},
		{"arrgapegamma/sparse", ArrGapEGamma, sparse},
		{"arrgapbienc/dense-ish", ArrGapBIEnc, blockFromBits([]uint16{10, 20, 30, 40, 50, 60})},
		{"arrgapinv/almostfull", ArrGapInv, almostFull},
		{"arrgapegammainv/almostfull", ArrGapEGammaInv, almostFull},
		{"arrgapbiencinv/almostfull", ArrGapBIEncInv, almostFull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := encodeDirect(t, tc.b, tc.typ)
			br := bitio.NewByteReader(raw)
			gotType := Type(br.Get8())
			if gotType != tc.typ {
				t.Fatalf("tag byte = %v, want %v", gotType, tc.typ)
			}
			got, err := DecodeBlock(br, gotType)
			if err != nil {
				t.Fatalf("DecodeBlock: %v", err)
			}
			if br.Pos() != len(raw) {
				t.Fatalf("consumed %d of %d bytes", br.Pos(), len(raw))
			}
			assertSamePositions(t, got, tc.b)
		})
	}

	_ = rng
}

func TestDecodeBlockRejectsUnsupportedLegacyCodes(t *testing.T) {
	for _, typ := range []Type{GapBitLegacy, ArrBit, BitInterval, BitZeroRuns, ArrBitInv, ArrBIEnc, ArrBIEncInv, BitGapBIEnc} {
		br := bitio.NewByteReader(nil)
		_, err := DecodeBlock(br, typ)
		if err == nil {
			t.Fatalf("type %v: expected FormatError, got nil", typ)
		}
		if _, ok := err.(*FormatError); !ok {
			t.Fatalf("type %v: expected *FormatError, got %T", typ, err)
		}
	}
}

func TestDecodeBlockIntoOrCombinesWithExistingTarget(t *testing.T) {
	encoded := blockFromBits([]uint16{10, 20, 30})
	raw := encodeDirect(t, encoded, GapPlain)
	br := bitio.NewByteReader(raw)
	gotType := Type(br.Get8())

	target := blockFromBits([]uint16{5, 15, 25})
	if err := DecodeBlockInto(br, gotType, target); err != nil {
		t.Fatalf("DecodeBlockInto: %v", err)
	}

	want := blockFromBits([]uint16{5, 10, 15, 20, 25, 30})
	assertSamePositions(t, target, want)
}

func TestDecodeBlockIntoPreservesAllSetTarget(t *testing.T) {
	target := bitvector.NewAllSetBlock()
	encoded := blockFromBits([]uint16{1, 2, 3})
	raw := encodeDirect(t, encoded, GapPlain)
	br := bitio.NewByteReader(raw)
	gotType := Type(br.Get8())

	if err := DecodeBlockInto(br, gotType, target); err != nil {
		t.Fatalf("DecodeBlockInto: %v", err)
	}
	if !target.Get(0) || !target.Get(65535) {
		t.Fatal("OR into an all-set target must remain all-set")
	}
}

func TestSkipBlockAdvancesSameAsDecodeBlock(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		b    *bitvector.Block
	}{
		{"plain", BitPlain, blockFromBits([]uint16{1, 2, 3})},
		{"bit1bit", Bit1Bit, blockFromBits([]uint16{42})},
		{"digest0", BitDigest0, blockFromBits([]uint16{5, 1027, 40000})},
		{"gapplain", GapPlain, blockFromBits([]uint16{0, 100, 200, 65535})},
		{"gapegamma", GapEGamma, blockFromBits([]uint16{0, 100, 200, 65535})},
		{"gapbienc", GapBIEnc, blockFromBits([]uint16{0, 100, 200, 65535})},
		{"arrgap", ArrGap, blockFromBits([]uint16{1, 2, 3})},
		{"arrgapegamma", ArrGapEGamma, blockFromBits([]uint16{1, 2, 3})},
		{"arrgapbienc", ArrGapBIEnc, blockFromBits([]uint16{1, 2, 3, 4, 5})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := encodeDirect(t, tc.b, tc.typ)

			decodeReader := bitio.NewByteReader(raw)
			decodeType := Type(decodeReader.Get8())
			if _, err := DecodeBlock(decodeReader, decodeType); err != nil {
				t.Fatalf("DecodeBlock: %v", err)
			}

			skipReader := bitio.NewByteReader(raw)
			skipType := Type(skipReader.Get8())
			if err := SkipBlock(skipReader, skipType); err != nil {
				t.Fatalf("SkipBlock: %v", err)
			}

			if decodeReader.Pos() != skipReader.Pos() {
				t.Fatalf("decode consumed %d bytes, skip consumed %d", decodeReader.Pos(), skipReader.Pos())
			}
		})
	}
}

func TestDecodeArrGapInvSingleClearedBitAtZero(t *testing.T) {
	b := bitvector.NewAllSetBlock()
	b.Clear(0)
	raw := encodeDirect(t, b, ArrGapInv)
	br := bitio.NewByteReader(raw)
	typ := Type(br.Get8())
	got, err := DecodeBlock(br, typ)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	assertSamePositions(t, got, b)
}
