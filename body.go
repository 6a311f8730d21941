package bmserial

import (
	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/bitvector"
	"github.com/hupe1980/bmserial/blockcodec"
)

// writeMonoRun emits the cheapest token that advances n blocks of a single
// kind (allSet selects the one-block family, otherwise the zero-block
// family), following the size ladder spec.md §6.1 lays out: the single-block
// shorthand, the dense 7-bit run, then widening fixed tokens.
func writeMonoRun(bw *bitio.ByteWriter, n uint64, allSet bool) {
	if n == 0 {
		return
	}
	if n == 1 {
		if allSet {
			bw.Put8(byte(blockcodec.OneOne))
		} else {
			bw.Put8(byte(blockcodec.OneZero))
		}
		return
	}
	if !allSet && n < 128 {
		bw.Put8(blockcodec.EncodeMonoShortRun(int(n)))
		return
	}
	switch {
	case n <= 0xFF:
		bw.Put8(byte(pick(allSet, blockcodec.One8, blockcodec.Zero8)))
		bw.Put8(uint8(n))
	case n <= 0xFFFF:
		bw.Put8(byte(pick(allSet, blockcodec.One16, blockcodec.Zero16)))
		bw.Put16(uint16(n))
	case n <= 0xFFFFFFFF:
		bw.Put8(byte(pick(allSet, blockcodec.One32, blockcodec.Zero32)))
		bw.Put32(uint32(n))
	default:
		bw.Put8(byte(pick(allSet, blockcodec.One64, blockcodec.Zero64)))
		bw.Put64(n)
	}
}

func pick(allSet bool, whenSet, whenZero blockcodec.Type) blockcodec.Type {
	if allSet {
		return whenSet
	}
	return whenZero
}

// encodeBody writes every populated block of bv, least index first,
// compacting runs of fully-absent or fully-set blocks between them into
// mono-run tokens, and terminates with the end marker. destroy, when true,
// reverts every encoded block to Absent in bv as it goes, implementing
// optimize_serialize_destroy's destructive mode.
func encodeBody(bw *bitio.ByteWriter, bv *bitvector.Container, level int, stats *blockcodec.Stats, destroy bool) {
	indices := bv.BlockIndices()
	next := uint64(0)

	i := 0
	for i < len(indices) {
		idx := indices[i]
		b, _ := bv.BlockAt(idx)
		pc := b.PopCount()

		if pc == 0 {
			i++
			continue
		}

		if idx > next {
			writeMonoRun(bw, idx-next, false)
		}

		if pc == bitvector.BitsPerBlock {
			runLen := uint64(1)
			j := i + 1
			for j < len(indices) && indices[j] == idx+runLen {
				nb, _ := bv.BlockAt(indices[j])
				if nb.PopCount() != bitvector.BitsPerBlock {
					break
				}
				runLen++
				j++
			}
			writeMonoRun(bw, runLen, true)
			if destroy {
				for k := idx; k < idx+runLen; k++ {
					bv.DeleteBlock(k)
				}
			}
			next = idx + runLen
			i = j
			continue
		}

		blockcodec.EncodeBlock(bw, b, level, stats)
		if destroy {
			bv.DeleteBlock(idx)
		}
		next = idx + 1
		i++
	}

	bw.Put8(byte(blockcodec.End))
}

// sizeBody computes encodeBody's exact output length without retaining the
// bytes, by running the identical deterministic encode logic into a
// disposable per-block scratch buffer; SerializeIntoResizable uses this to
// size the real destination buffer in one extra pass rather than carrying a
// separate cost-estimation engine, since EncodeBlock's model selection and
// rollback are cheap to simply redo. Stats, if the caller wants them, are
// collected on the subsequent real encode pass, not here.
func sizeBody(bv *bitvector.Container, level int) int {
	scratch := make([]byte, 1+bitvector.WordsPerBlock*4)
	indices := bv.BlockIndices()
	next := uint64(0)
	total := 0

	i := 0
	for i < len(indices) {
		idx := indices[i]
		b, _ := bv.BlockAt(idx)
		pc := b.PopCount()

		if pc == 0 {
			i++
			continue
		}

		if idx > next {
			total += monoRunSize(idx-next, false)
		}

		if pc == bitvector.BitsPerBlock {
			runLen := uint64(1)
			j := i + 1
			for j < len(indices) && indices[j] == idx+runLen {
				nb, _ := bv.BlockAt(indices[j])
				if nb.PopCount() != bitvector.BitsPerBlock {
					break
				}
				runLen++
				j++
			}
			total += monoRunSize(runLen, true)
			next = idx + runLen
			i = j
			continue
		}

		bw := bitio.NewByteWriter(scratch)
		blockcodec.EncodeBlock(bw, b, level, nil)
		total += bw.Pos()
		next = idx + 1
		i++
	}

	return total + 1 // end marker
}

func monoRunSize(n uint64, allSet bool) int {
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 1
	}
	if !allSet && n < 128 {
		return 1
	}
	switch {
	case n <= 0xFF:
		return 2
	case n <= 0xFFFF:
		return 3
	case n <= 0xFFFFFFFF:
		return 5
	default:
		return 9
	}
}
