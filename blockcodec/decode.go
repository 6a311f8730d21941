package blockcodec

import (
	"fmt"

	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/bitvector"
	"github.com/hupe1980/bmserial/entropy"
)

// FormatError reports an unrecognized or unsupported block-type byte.
type FormatError struct {
	Type byte
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("blockcodec: unrecognized or unsupported block type %d", e.Type)
}

// DecodeBlock decodes the block-type-specific payload that follows a type
// byte already consumed by the caller (the stream iterator owns reading
// the type byte itself, since it also has to recognize the 0x80|k
// shorthand and the mono-run tokens before dispatching here) and returns
// a freshly materialized block.
func DecodeBlock(br *bitio.ByteReader, t Type) (*bitvector.Block, error) {
	switch t {
	case BitPlain:
		words := make([]uint32, bitvector.WordsPerBlock)
		br.Get32Array(words, bitvector.WordsPerBlock)
		return &bitvector.Block{Kind: bitvector.Bit, Words: words}, nil

	case Bit1Bit:
		pos := br.Get16()
		b := bitvector.NewBitBlock()
		b.Set(pos)
		return b, nil

	case BitDigest0:
		d := br.Get64()
		words := make([]uint32, bitvector.WordsPerBlock)
		for wave := 0; wave < bitvector.SubWaves; wave++ {
			if d&(1<<wave) == 0 {
				continue
			}
			base := wave * bitvector.SubWaveWords
			br.Get32Array(words[base:base+bitvector.SubWaveWords], bitvector.SubWaveWords)
		}
		return &bitvector.Block{Kind: bitvector.Bit, Words: words}, nil

	case GapPlain:
		startsSet, count := readGapHeader(br)
		ends := make([]uint16, count)
		br.Get16Array(ends, count)
		return &bitvector.Block{Kind: bitvector.GAP, StartsSet: startsSet, Ends: ends}, nil

	case GapEGamma:
		startsSet, count := readGapHeader(br)
		ends := make([]uint16, count)
		bit := bitio.NewBitReader(br)
		prev := uint16(0)
		for i := 0; i < count; i++ {
			g := entropy.DecodeGamma(bit)
			prev = prev + uint16(g) - 1
			ends[i] = prev
		}
		return &bitvector.Block{Kind: bitvector.GAP, StartsSet: startsSet, Ends: ends}, nil

	case GapBIEnc:
		startsSet, count := readGapHeader(br)
		min := br.Get16()
		interior := make([]uint16, count-1)
		bit := bitio.NewBitReader(br)
		entropy.DecodeInterpolative16(bit, interior, count-1, min, bitvector.GAPTerminal-1)
		ends := append(interior, bitvector.GAPTerminal)
		return &bitvector.Block{Kind: bitvector.GAP, StartsSet: startsSet, Ends: ends}, nil

	case ArrGap, ArrGapInv:
		count := int(br.Get16())
		pos := make([]uint16, count)
		br.Get16Array(pos, count)
		return blockFromPositions(pos, t == ArrGapInv), nil

	case ArrGapEGamma, ArrGapEGammaInv:
		count := int(br.Get16())
		pos := make([]uint16, count)
		bit := bitio.NewBitReader(br)
		var prev uint16
		for i := 0; i < count; i++ {
			g := entropy.DecodeGamma(bit)
			if i == 0 {
				pos[i] = uint16(g - 1)
			} else {
				pos[i] = prev + uint16(g)
			}
			prev = pos[i]
		}
		return blockFromPositions(pos, t == ArrGapEGammaInv), nil

	case ArrGapBIEnc, ArrGapBIEncInv:
		min := br.Get16()
		max := br.Get16()
		bit := bitio.NewBitReader(br)
		lenMinus4 := entropy.DecodeGamma(bit)
		count := int(lenMinus4) + 4 - 1
		pos := make([]uint16, count)
		entropy.DecodeInterpolative16(bit, pos, count, min, max)
		return blockFromPositions(pos, t == ArrGapBIEncInv), nil

	default:
		return nil, &FormatError{Type: byte(t)}
	}
}

func readGapHeader(br *bitio.ByteReader) (startsSet bool, count int) {
	header := br.Get16()
	startsSet = header&0x8000 != 0
	count = int(header&0x7FFF) + 1
	return
}

// blockFromPositions builds a bit-block from an array-of-positions
// candidate: when inv is false the listed positions are the set bits and
// everything else is clear; when inv is true the listed positions are the
// clear bits and everything else is set.
func blockFromPositions(pos []uint16, inv bool) *bitvector.Block {
	b := bitvector.NewBitBlock()
	if inv {
		for i := range b.Words {
			b.Words[i] = 0xFFFFFFFF
		}
	}
	for _, p := range pos {
		if inv {
			b.Clear(p)
		} else {
			b.Set(p)
		}
	}
	return b
}

// DecodeBlockInto decodes the block-type-specific payload and OR-combines
// it into target, materializing target as a bit-block first if it was
// Absent or a GAP block that needs deoptimizing.
func DecodeBlockInto(br *bitio.ByteReader, t Type, target *bitvector.Block) error {
	scratch, err := DecodeBlock(br, t)
	if err != nil {
		return err
	}
	target.Or(scratch)
	return nil
}

// SkipBlock advances br past the block-type-specific payload without
// materializing it, for the dry-read path (ASSIGN into a NULL destination,
// AND against an absent destination, and similar operations that only
// need the cursor to move).
func SkipBlock(br *bitio.ByteReader, t Type) error {
	switch t {
	case BitPlain:
		br.Get32Array(nil, bitvector.WordsPerBlock)
	case Bit1Bit:
		br.Get16()
	case BitDigest0:
		d := br.Get64()
		for wave := 0; wave < bitvector.SubWaves; wave++ {
			if d&(1<<wave) != 0 {
				br.Get32Array(nil, bitvector.SubWaveWords)
			}
		}
	case GapPlain:
		_, count := readGapHeader(br)
		br.Get16Array(nil, count)
	case GapEGamma:
		_, count := readGapHeader(br)
		bit := bitio.NewBitReader(br)
		for i := 0; i < count; i++ {
			entropy.SkipGamma(bit)
		}
	case GapBIEnc:
		_, count := readGapHeader(br)
		min := br.Get16()
		bit := bitio.NewBitReader(br)
		entropy.SkipInterpolative16(bit, count-1, min, bitvector.GAPTerminal-1)
	case ArrGap, ArrGapInv:
		count := int(br.Get16())
		br.Get16Array(nil, count)
	case ArrGapEGamma, ArrGapEGammaInv:
		count := int(br.Get16())
		bit := bitio.NewBitReader(br)
		for i := 0; i < count; i++ {
			entropy.SkipGamma(bit)
		}
	case ArrGapBIEnc, ArrGapBIEncInv:
		min := br.Get16()
		max := br.Get16()
		bit := bitio.NewBitReader(br)
		lenMinus4 := entropy.DecodeGamma(bit)
		count := int(lenMinus4) + 3
		entropy.SkipInterpolative16(bit, count, min, max)
	default:
		return &FormatError{Type: byte(t)}
	}
	return nil
}
