package bitio

import (
	"math/rand"
	"testing"
)

func TestBitWriterReaderRoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	bw := NewBitWriter(NewByteWriter(buf))

	values := []struct {
		v uint32
		n uint
	}{
		{1, 1}, {0, 1}, {5, 3}, {0xFFFF, 16}, {0, 7}, {0x12345, 20}, {1, 32}, {0, 0},
	}
	for _, tc := range values {
		bw.PutBits(tc.v, tc.n)
	}
	bw.PutZeroBits(37)
	bw.Flush()

	byteLen := bw.bw.Pos()
	br := NewBitReader(NewByteReader(buf[:byteLen]))
	for _, tc := range values {
		got := br.GetBits(tc.n)
		want := tc.v
		if tc.n < 32 {
			want &= (1 << tc.n) - 1
		}
		if got != want {
			t.Fatalf("GetBits(%d) = %d, want %d", tc.n, got, want)
		}
	}
	for i := 0; i < 37; i++ {
		if br.GetBit() != 0 {
			t.Fatalf("expected zero bit at offset %d", i)
		}
	}
}

func TestBitWriterReaderRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const count = 2000

	ns := make([]uint, count)
	vs := make([]uint32, count)
	for i := 0; i < count; i++ {
		n := uint(rng.Intn(32) + 1)
		ns[i] = n
		var v uint32
		if n == 32 {
			v = rng.Uint32()
		} else {
			v = rng.Uint32() & ((1 << n) - 1)
		}
		vs[i] = v
	}

	buf := make([]byte, count*4+16)
	bw := NewBitWriter(NewByteWriter(buf))
	for i := 0; i < count; i++ {
		bw.PutBits(vs[i], ns[i])
	}
	bw.Flush()

	br := NewBitReader(NewByteReader(buf[:bw.bw.Pos()]))
	for i := 0; i < count; i++ {
		got := br.GetBits(ns[i])
		if got != vs[i] {
			t.Fatalf("entry %d: GetBits(%d) = %d, want %d", i, ns[i], got, vs[i])
		}
	}
}

func TestBitReaderSkipBits(t *testing.T) {
	buf := make([]byte, 64)
	bw := NewBitWriter(NewByteWriter(buf))
	bw.PutBits(0xAAAA, 16)
	bw.PutBits(0x55, 8)
	bw.PutBits(0x7, 3)
	bw.Flush()

	br := NewBitReader(NewByteReader(buf[:bw.bw.Pos()]))
	br.SkipBits(16)
	if got := br.GetBits(8); got != 0x55 {
		t.Fatalf("GetBits(8) after skip = %x, want 55", got)
	}
	if got := br.GetBits(3); got != 0x7 {
		t.Fatalf("GetBits(3) = %x, want 7", got)
	}
}
