package streamop

import (
	"fmt"

	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/blockcodec"
)

// EventKind classifies one token the Iterator yields.
type EventKind int

const (
	// EventEnd is the explicit end marker (type 0) or its all-remaining-
	// zero synonym (type 9, azero): nothing further follows in the body.
	EventEnd EventKind = iota
	// EventZeroRun advances Run blocks, all logically absent.
	EventZeroRun
	// EventOneRun advances Run blocks, all logically all-set.
	EventOneRun
	// EventAllOneRest marks every remaining block up to the container's
	// address limit as all-set (type 10, aone) and ends the body.
	EventAllOneRest
	// EventBlock is a genuine per-block payload; Type selects the
	// blockcodec decoder.
	EventBlock
)

// Event is one token produced by Iterator.Next.
type Event struct {
	Kind EventKind
	Run  uint64
	Type blockcodec.Type
}

// FormatError reports a type byte the iterator does not recognize as any
// mono-run token, the end marker, or a blockcodec.Type.
type FormatError struct {
	Type byte
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("streamop: unrecognized block-stream tag %d", e.Type)
}

// Iterator walks a serialized body one logical block-run at a time,
// matching spec's unknown -> list_ids|blocks -> {zero_blocks|one_blocks|
// bit_block|gap_block} state machine (the list_ids branch is the root
// package's concern — it owns the header and decides whether the body is
// block-encoded at all; Iterator only ever sees a block-encoded body).
type Iterator struct {
	br    *bitio.ByteReader
	index uint64
	done  bool
}

// NewIterator creates an Iterator over br's current position, starting at
// block index 0.
func NewIterator(br *bitio.ByteReader) *Iterator {
	return &Iterator{br: br}
}

// Index returns the block index the next Next() call will start from.
func (it *Iterator) Index() uint64 { return it.index }

// Done reports whether the body's end marker has been consumed.
func (it *Iterator) Done() bool { return it.done }

// Next advances past exactly one token and reports what it was. Calling
// Next after Done is a no-op returning EventEnd.
func (it *Iterator) Next() (Event, error) {
	if it.done {
		return Event{Kind: EventEnd}, nil
	}

	tag := it.br.Get8()
	if k, ok := blockcodec.IsMonoShortRun(tag); ok {
		it.index += uint64(k)
		return Event{Kind: EventZeroRun, Run: uint64(k)}, nil
	}

	switch blockcodec.Type(tag) {
	case blockcodec.End, blockcodec.AllZero:
		it.done = true
		return Event{Kind: EventEnd}, nil

	case blockcodec.AllOne:
		it.done = true
		return Event{Kind: EventAllOneRest}, nil

	case blockcodec.OneZero:
		it.index++
		return Event{Kind: EventZeroRun, Run: 1}, nil

	case blockcodec.OneOne:
		it.index++
		return Event{Kind: EventOneRun, Run: 1}, nil

	case blockcodec.Zero8:
		n := uint64(it.br.Get8())
		it.index += n
		return Event{Kind: EventZeroRun, Run: n}, nil

	case blockcodec.One8:
		n := uint64(it.br.Get8())
		it.index += n
		return Event{Kind: EventOneRun, Run: n}, nil

	case blockcodec.Zero16:
		n := uint64(it.br.Get16())
		it.index += n
		return Event{Kind: EventZeroRun, Run: n}, nil

	case blockcodec.One16:
		n := uint64(it.br.Get16())
		it.index += n
		return Event{Kind: EventOneRun, Run: n}, nil

	case blockcodec.Zero32:
		n := uint64(it.br.Get32())
		it.index += n
		return Event{Kind: EventZeroRun, Run: n}, nil

	case blockcodec.One32:
		n := uint64(it.br.Get32())
		it.index += n
		return Event{Kind: EventOneRun, Run: n}, nil

	case blockcodec.Zero64:
		n := it.br.Get64()
		it.index += n
		return Event{Kind: EventZeroRun, Run: n}, nil

	case blockcodec.One64:
		n := it.br.Get64()
		it.index += n
		return Event{Kind: EventOneRun, Run: n}, nil

	case blockcodec.GapBitLegacy, blockcodec.ArrBit, blockcodec.BitInterval,
		blockcodec.BitZeroRuns, blockcodec.ArrBitInv, blockcodec.ArrBIEnc,
		blockcodec.ArrBIEncInv, blockcodec.BitGapBIEnc:
		return Event{}, &FormatError{Type: tag}

	default:
		it.index++
		return Event{Kind: EventBlock, Type: blockcodec.Type(tag)}, nil
	}
}

// SkipMonoBlocks returns the iterator's block index after the last event.
// Next already moves the index past a whole mono-run event (Zero/One), so
// called right after an EventZeroRun or EventOneRun this is the index after
// the run; it never moves the iterator itself.
func (it *Iterator) SkipMonoBlocks() uint64 {
	return it.index
}
