package blockcodec

import (
	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/bitvector"
	"github.com/hupe1980/bmserial/entropy"
)

// plainPayloadBytes is the size in bytes of a materialized bit-block's raw
// 2048-word payload, the baseline every variable-cost model is compared
// against.
const plainPayloadBytes = bitvector.WordsPerBlock * 4

// EncodeBlock writes one non-trivial block (1 <= PopCount <= 65535; the
// all-zero/all-one short circuits are the stream writer's concern, not
// this function's) to bw, choosing a model via SelectModel and rolling
// back to the plain representation if the chosen model's real emitted
// size does not beat it, per the rollback invariant. A candidate that runs
// past the end of bw's buffer is rolled back the same way, so a buffer with
// room for the plain form always suffices. stats, if non-nil, is credited
// with whichever type byte was actually written.
func EncodeBlock(bw *bitio.ByteWriter, b *bitvector.Block, level int, stats *Stats) {
	mark := bw.Pos()
	chosen := SelectModel(b, level)

	fits := func() bool {
		defer func() {
			if r := recover(); r != nil {
				if _, isCap := r.(*bitio.CapacityError); !isCap {
					panic(r)
				}
			}
		}()
		encodeCandidate(bw, b, chosen)
		return true
	}()
	used := bw.Pos() - mark

	plainSize := 1 + plainPayloadBytes
	if !fits || (chosen != BitPlain && chosen != Bit1Bit && used >= plainSize) {
		bw.SetPos(mark)
		encodePlain(bw, b)
		chosen = BitPlain
	}

	if stats != nil {
		stats.Count[chosen]++
	}
}

func encodeCandidate(bw *bitio.ByteWriter, b *bitvector.Block, t Type) {
	switch t {
	case BitPlain:
		encodePlain(bw, b)
	case Bit1Bit:
		encodeBit1Bit(bw, b)
	case BitDigest0:
		encodeDigest0(bw, b)
	case GapPlain:
		encodeGapPlain(bw, b)
	case GapEGamma:
		encodeGapEGamma(bw, b)
	case GapBIEnc:
		encodeGapBIEnc(bw, b)
	case ArrGap, ArrGapInv:
		encodeArrGap(bw, b, t == ArrGapInv)
	case ArrGapEGamma, ArrGapEGammaInv:
		encodeArrGapEGamma(bw, b, t == ArrGapEGammaInv)
	case ArrGapBIEnc, ArrGapBIEncInv:
		encodeArrGapBIEnc(bw, b, t == ArrGapBIEncInv)
	default:
		encodePlain(bw, b)
	}
}

func encodePlain(bw *bitio.ByteWriter, b *bitvector.Block) {
	bw.Put8(byte(BitPlain))
	bw.Put32Array(b.ToBitWords())
}

func encodeBit1Bit(bw *bitio.ByteWriter, b *bitvector.Block) {
	bw.Put8(byte(Bit1Bit))
	pos := singleSetPosition(b)
	bw.Put16(pos)
}

func singleSetPosition(b *bitvector.Block) uint16 {
	for pos := 0; pos < bitvector.BitsPerBlock; pos++ {
		if b.Get(uint16(pos)) {
			return uint16(pos)
		}
	}
	return 0
}

// encodeDigest0 writes the 64-bit digest followed by the raw words of
// every sub-wave the digest marks non-empty.
func encodeDigest0(bw *bitio.ByteWriter, b *bitvector.Block) {
	bw.Put8(byte(BitDigest0))
	d := b.Digest()
	bw.Put64(d)

	words := b.ToBitWords()
	for wave := 0; wave < bitvector.SubWaves; wave++ {
		if d&(1<<wave) == 0 {
			continue
		}
		base := wave * bitvector.SubWaveWords
		bw.Put32Array(words[base : base+bitvector.SubWaveWords])
	}
}

// writeGapHeader writes the single header word this codec uses for every
// GAP-domain model: bit 15 is the start polarity, bits 0-14 are the run
// count minus 1. The native library instead folds polarity and a GAP
// level into the first endpoint word itself; this codec keeps them
// separate for clarity (see DESIGN.md) — it is an internal convention both
// encodeGapPlain's writer and DecodeBlock's reader share, not a wire
// format any other implementation needs to match.
func writeGapHeader(bw *bitio.ByteWriter, form gapForm) {
	header := uint16(len(form.ends) - 1)
	if form.startsSet {
		header |= 0x8000
	}
	bw.Put16(header)
}

// encodeGapPlain writes the header word followed by every endpoint,
// including the terminal.
func encodeGapPlain(bw *bitio.ByteWriter, b *bitvector.Block) {
	bw.Put8(byte(GapPlain))
	form := toGapForm(b)
	writeGapHeader(bw, form)
	bw.Put16Array(form.ends)
}

func encodeGapEGamma(bw *bitio.ByteWriter, b *bitvector.Block) {
	bw.Put8(byte(GapEGamma))
	form := toGapForm(b)
	writeGapHeader(bw, form)

	bit := bitio.NewBitWriter(bw)
	prev := uint16(0)
	for _, end := range form.ends {
		entropy.EncodeGamma(bit, uint32(end-prev)+1)
		prev = end
	}
	bit.Flush()
}

// encodeGapBIEnc BIC-encodes every endpoint but the implicit terminal
// (always 65535) over the range [min, GAPTerminal-1], where min is the
// array's own first element.
func encodeGapBIEnc(bw *bitio.ByteWriter, b *bitvector.Block) {
	bw.Put8(byte(GapBIEnc))
	form := toGapForm(b)
	writeGapHeader(bw, form)

	interior := form.ends[:len(form.ends)-1]
	min := interior[0]
	bw.Put16(min)

	bit := bitio.NewBitWriter(bw)
	entropy.EncodeInterpolative16(bit, interior, len(interior), min, bitvector.GAPTerminal-1)
	bit.Flush()
}

// positionsForModel extracts the array-of-positions candidate's payload:
// the bc (or cleared, when inv) individual positions the selector decided
// are cheaper to list directly than a full run-endpoint sequence.
func positionsForModel(b *bitvector.Block, inv bool) []uint16 {
	form := toGapForm(b)
	return form.positions(!inv)
}

func encodeArrGap(bw *bitio.ByteWriter, b *bitvector.Block, inv bool) {
	t := ArrGap
	if inv {
		t = ArrGapInv
	}
	bw.Put8(byte(t))
	pos := positionsForModel(b, inv)
	bw.Put16(uint16(len(pos)))
	bw.Put16Array(pos)
}

func encodeArrGapEGamma(bw *bitio.ByteWriter, b *bitvector.Block, inv bool) {
	t := ArrGapEGamma
	if inv {
		t = ArrGapEGammaInv
	}
	bw.Put8(byte(t))
	pos := positionsForModel(b, inv)
	bw.Put16(uint16(len(pos)))

	bit := bitio.NewBitWriter(bw)
	var prev uint16
	for i, p := range pos {
		if i == 0 {
			entropy.EncodeGamma(bit, uint32(p)+1)
		} else {
			entropy.EncodeGamma(bit, uint32(p-prev))
		}
		prev = p
	}
	bit.Flush()
}

func encodeArrGapBIEnc(bw *bitio.ByteWriter, b *bitvector.Block, inv bool) {
	t := ArrGapBIEnc
	if inv {
		t = ArrGapBIEncInv
	}
	bw.Put8(byte(t))
	pos := positionsForModel(b, inv)

	min, max := pos[0], pos[0]
	for _, p := range pos {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	bw.Put16(min)
	bw.Put16(max)

	bit := bitio.NewBitWriter(bw)
	entropy.EncodeGamma(bit, uint32(len(pos)-4+1))
	entropy.EncodeInterpolative16(bit, pos, len(pos), min, max)
	bit.Flush()
}
