package bitvector

import "testing"

func TestBlockSetGetClear(t *testing.T) {
	b := NewAbsentBlock()
	if b.Get(100) {
		t.Fatal("absent block must read zero")
	}
	b.Set(100)
	if !b.Get(100) {
		t.Fatal("expected bit 100 set")
	}
	if b.Kind != Bit {
		t.Fatalf("Set must materialize Absent into Bit, got %v", b.Kind)
	}
	b.Clear(100)
	if b.Get(100) {
		t.Fatal("expected bit 100 cleared")
	}
}

func TestAllSetBlockReadsOnes(t *testing.T) {
	b := NewAllSetBlock()
	if !b.Get(0) || !b.Get(65535) {
		t.Fatal("all-set block must read one everywhere")
	}
	if b.PopCount() != BitsPerBlock {
		t.Fatalf("PopCount() = %d, want %d", b.PopCount(), BitsPerBlock)
	}
}

func TestBitToGAPRoundTrip(t *testing.T) {
	b := NewBitBlock()
	for _, pos := range []uint16{0, 1, 2, 100, 101, 102, 65535} {
		b.Set(pos)
	}
	startsSet, ends := b.ToGAP()
	gap := &Block{Kind: GAP, StartsSet: startsSet, Ends: ends}

	for pos := 0; pos < BitsPerBlock; pos++ {
		want := b.Get(uint16(pos))
		got := gap.Get(uint16(pos))
		if want != got {
			t.Fatalf("pos %d: bit=%v gap=%v", pos, want, got)
		}
	}
	if ends[len(ends)-1] != GAPTerminal {
		t.Fatalf("last GAP endpoint = %d, want %d", ends[len(ends)-1], GAPTerminal)
	}
}

func TestGAPPopCountMatchesBit(t *testing.T) {
	b := NewBitBlock()
	for _, pos := range []uint16{5, 6, 7, 8, 500, 40000, 40001, 40002} {
		b.Set(pos)
	}
	want := b.PopCount()

	startsSet, ends := b.ToGAP()
	gap := &Block{Kind: GAP, StartsSet: startsSet, Ends: ends}
	if got := gap.PopCount(); got != want {
		t.Fatalf("GAP PopCount() = %d, want %d", got, want)
	}
}

func TestDigestMarksOnlyOccupiedSubWaves(t *testing.T) {
	b := NewBitBlock()
	b.Set(5)       // sub-wave 0
	b.Set(1024 + 3) // sub-wave 1
	d := b.Digest()
	if d&0x3 != 0x3 {
		t.Fatalf("digest = %#x, want sub-waves 0 and 1 set", d)
	}
	if d&^uint64(0x3) != 0 {
		t.Fatalf("digest = %#x, want no other sub-waves set", d)
	}
}

func TestEnsureMutableBitDeoptimizesGAP(t *testing.T) {
	src := NewBitBlock()
	src.Set(10)
	src.Set(20)
	startsSet, ends := src.ToGAP()
	gap := &Block{Kind: GAP, StartsSet: startsSet, Ends: ends}

	gap.Set(30)
	if gap.Kind != Bit {
		t.Fatalf("Set on a GAP block must deoptimize to Bit, got %v", gap.Kind)
	}
	if !gap.Get(10) || !gap.Get(20) || !gap.Get(30) {
		t.Fatal("deoptimized block lost bits")
	}
}

func TestChangeCountOnGAPIsEndpointCount(t *testing.T) {
	b := NewBitBlock()
	b.Set(10)
	b.Set(11)
	b.Set(12)
	_, ends := b.ToGAP()
	gap := &Block{Kind: GAP, Ends: ends}
	if gap.ChangeCount() != len(ends) {
		t.Fatalf("ChangeCount() = %d, want %d", gap.ChangeCount(), len(ends))
	}
}
