package streamop

import (
	"testing"

	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/blockcodec"
	"github.com/hupe1980/bmserial/bitvector"
)

// writeBody encodes a minimal block-encoded body (no header) for the
// given block index -> *bitvector.Block map, terminated by End, using the
// simplest run/type tokens the test needs.
func writeBody(t *testing.T, buf []byte, blocks map[uint64]*bitvector.Block, maxIdx uint64) []byte {
	t.Helper()
	bw := bitio.NewByteWriter(buf)
	for idx := uint64(0); idx <= maxIdx; idx++ {
		b, ok := blocks[idx]
		if !ok {
			bw.Put8(byte(blockcodec.OneZero))
			continue
		}
		if b.PopCount() == bitvector.BitsPerBlock {
			bw.Put8(byte(blockcodec.OneOne))
			continue
		}
		blockcodec.EncodeBlock(bw, b, 5, nil)
	}
	bw.Put8(byte(blockcodec.End))
	return bw.Bytes()
}

func blockWithBits(positions ...uint16) *bitvector.Block {
	b := bitvector.NewBitBlock()
	for _, p := range positions {
		b.Set(p)
	}
	return b
}

func TestEngineOrDeserializesIntoEmptyTarget(t *testing.T) {
	src := map[uint64]*bitvector.Block{
		0: blockWithBits(1, 2, 3),
		2: blockWithBits(9000),
	}
	raw := writeBody(t, make([]byte, 1<<20), src, 2)

	target := bitvector.New(false)
	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpOr}
	count, exit, err := eng.Run(it, target, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exit {
		t.Fatal("unexpected early exit")
	}
	if count != 4 {
		t.Fatalf("count = %d, want 4", count)
	}

	for idx, b := range src {
		got, ok := target.BlockAt(idx)
		if !ok {
			t.Fatalf("block %d missing from target", idx)
		}
		for pos := 0; pos < bitvector.BitsPerBlock; pos++ {
			if got.Get(uint16(pos)) != b.Get(uint16(pos)) {
				t.Fatalf("block %d pos %d mismatch", idx, pos)
			}
		}
	}
}

func TestEngineAndAgainstEmptyTargetProducesZero(t *testing.T) {
	src := map[uint64]*bitvector.Block{
		0: blockWithBits(1, 2, 3, 4, 5),
		1: blockWithBits(6000, 6001),
	}
	raw := writeBody(t, make([]byte, 1<<20), src, 1)

	target := bitvector.New(false)
	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpAnd}
	count, exit, err := eng.Run(it, target, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if exit {
		t.Fatal("unexpected early exit")
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0 (AND against empty target)", count)
	}
}

func TestEngineOrExitOnOneStopsAtFirstHit(t *testing.T) {
	src := map[uint64]*bitvector.Block{
		0: bitvector.NewAbsentBlock(),
		1: blockWithBits(42),
		2: blockWithBits(1, 2, 3),
	}
	raw := writeBody(t, make([]byte, 1<<20), src, 2)

	target := bitvector.New(false)
	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpOr, ExitOnOne: true}
	count, exit, err := eng.Run(it, target, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !exit {
		t.Fatal("expected early exit")
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestEngineXorWithSelfIsEmpty(t *testing.T) {
	src := map[uint64]*bitvector.Block{
		0: blockWithBits(10, 20, 30),
	}
	raw := writeBody(t, make([]byte, 1<<20), src, 0)

	target := bitvector.New(false)
	target.Set(10)
	target.Set(20)
	target.Set(30)

	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpXor}
	count, _, err := eng.Run(it, target, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0 (a XOR a == empty)", count)
	}
}

func TestEngineSubRemovesSourceBits(t *testing.T) {
	src := map[uint64]*bitvector.Block{
		0: blockWithBits(1, 2, 3),
	}
	raw := writeBody(t, make([]byte, 1<<20), src, 0)

	target := bitvector.New(false)
	target.Set(1)
	target.Set(2)
	target.Set(99)

	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpSub}
	count, _, err := eng.Run(it, target, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1 (only bit 99 survives)", count)
	}
	b, _ := target.BlockAt(0)
	if !b.Get(99) || b.Get(1) || b.Get(2) {
		t.Fatalf("unexpected surviving bits in block 0")
	}
}

func TestEngineAllOneRestSetsRemainingBlocksAllSet(t *testing.T) {
	buf := make([]byte, 64)
	bw := bitio.NewByteWriter(buf)
	bw.Put8(byte(blockcodec.OneZero))
	bw.Put8(byte(blockcodec.AllOne))
	raw := bw.Bytes()

	target := bitvector.New(false)
	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpOr}
	_, _, err := eng.Run(it, target, 4)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for idx := uint64(1); idx < 4; idx++ {
		b, ok := target.BlockAt(idx)
		if !ok || b.Kind != bitvector.AllSet {
			t.Fatalf("block %d: expected AllSet, got %+v (present=%v)", idx, b, ok)
		}
	}
}

func TestEngineRangeRestrictionSkipsOutsideBlocks(t *testing.T) {
	src := map[uint64]*bitvector.Block{
		0: blockWithBits(1),
		1: blockWithBits(2),
		2: blockWithBits(3),
	}
	raw := writeBody(t, make([]byte, 1<<20), src, 2)

	target := bitvector.New(false)
	from, to := uint64(1), uint64(1)
	it := NewIterator(bitio.NewByteReader(raw))
	eng := &Engine{Op: OpOr, From: &from, To: &to}
	_, _, err := eng.Run(it, target, 3)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := target.BlockAt(0); ok {
		t.Fatal("block 0 should have been skipped by range restriction")
	}
	if _, ok := target.BlockAt(2); ok {
		t.Fatal("block 2 should have been skipped by range restriction")
	}
	b, ok := target.BlockAt(1)
	if !ok || !b.Get(2) {
		t.Fatal("block 1 should have been combined")
	}
}
