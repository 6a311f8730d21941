package blockcodec

import (
	"math/bits"

	"github.com/hupe1980/bmserial/bitvector"
)

// gapForm is the run-length view of a block used by the model selector and
// the gap-domain encoders, regardless of whether the block is currently
// materialized as a bit-block or already a GAP block.
type gapForm struct {
	startsSet bool
	ends      []uint16
}

func toGapForm(b *bitvector.Block) gapForm {
	if b.Kind == bitvector.GAP {
		return gapForm{startsSet: b.StartsSet, ends: b.Ends}
	}
	startsSet, ends := b.ToGAP()
	return gapForm{startsSet: startsSet, ends: ends}
}

// positions returns the positions where the block's value equals want,
// derived from a gapForm's run list. Called by the array encoders (through
// positionsForModel) for whichever value the chosen model lists.
func (g gapForm) positions(want bool) []uint16 {
	var out []uint16
	v := g.startsSet
	start := uint16(0)
	for _, end := range g.ends {
		if v == want {
			for p := uint32(start); p <= uint32(end); p++ {
				out = append(out, uint16(p))
			}
		}
		if end == bitvector.GAPTerminal {
			break
		}
		start = end + 1
		v = !v
	}
	return out
}

// SelectModel picks the block-type byte the encoder should attempt first.
// It is a cost heuristic, not a correctness boundary: EncodeBlock always
// verifies the real emitted size against the plain representation and
// rolls back if the heuristic was wrong, per spec's rollback invariant.
func SelectModel(b *bitvector.Block, level int) Type {
	bc := b.PopCount()
	if bc == 0 {
		return AllZero
	}
	if bc == bitvector.BitsPerBlock {
		return AllOne
	}
	if bc == 1 {
		return Bit1Bit
	}

	form := toGapForm(b)
	gapLen := len(form.ends)
	cleared := bitvector.BitsPerBlock - bc

	if level == 0 {
		if b.Kind == bitvector.Bit {
			return BitPlain
		}
		// A GAP-kind block (e.g. one just OR'd in by streamop/engine.go's
		// combineBlock and kept as GAP) has no bit-plain form to fall back
		// to without first materializing it; level 0 still means "don't
		// search for a cheaper model," so GapPlain is this kind's plain
		// form, matching find_gap_best_encoding's own level<=2 shortcut.
		return GapPlain
	}

	if bc < gapLen {
		switch {
		case level >= 5 && bc >= arrGapBIEncMinCount:
			return ArrGapBIEnc
		case level >= 3:
			return ArrGapEGamma
		default:
			return ArrGap
		}
	}
	if cleared < gapLen {
		switch {
		case level >= 5 && cleared >= arrGapBIEncMinCount:
			return ArrGapBIEncInv
		case level >= 3:
			return ArrGapEGammaInv
		default:
			return ArrGapInv
		}
	}

	if b.Kind == bitvector.Bit {
		d := b.Digest()
		dp := bits.OnesCount64(d)
		if dp > 0 && dp*SubWaveCostWords < gapLen {
			return BitDigest0
		}
	}

	switch {
	case level >= 5:
		return GapBIEnc
	case level >= 3:
		return GapEGamma
	default:
		return GapPlain
	}
}

// SubWaveCostWords is the per-sub-wave word count used to compare the
// digest model's cost against a gap-run count in SelectModel; it is not a
// precise bit-cost, just the heuristic's scaling factor.
const SubWaveCostWords = bitvector.SubWaveWords

// arrGapBIEncMinCount is the smallest position count encodeArrGapBIEnc can
// encode: it stores (count-4)+1 as an Elias-Gamma value, which is only
// defined for inputs of at least 1.
const arrGapBIEncMinCount = 4
