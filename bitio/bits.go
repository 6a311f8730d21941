package bitio

// BitWriter pushes bits LSB-first into a 32-bit accumulator, flushing full
// accumulators to an underlying ByteWriter. There is no framing between a
// BitWriter and its matching BitReader: the reader must be driven by the
// same sequence of Get calls the writer was driven by.
type BitWriter struct {
	bw    *ByteWriter
	acc   uint32
	nbit  uint // bits currently held in acc, 0..31
	total int  // total bits pushed, for cost estimation
}

// NewBitWriter creates a BitWriter over bw.
func NewBitWriter(bw *ByteWriter) *BitWriter {
	return &BitWriter{bw: bw}
}

// PutBit pushes a single bit.
func (w *BitWriter) PutBit(b uint32) {
	w.acc |= (b & 1) << w.nbit
	w.nbit++
	w.total++
	if w.nbit == 32 {
		w.bw.Put32(w.acc)
		w.acc = 0
		w.nbit = 0
	}
}

// PutBits masks v to its low n bits and pushes them LSB-first, crossing the
// 32-bit accumulator boundary by emitting the full accumulator and
// continuing. n must be in [0,32].
func (w *BitWriter) PutBits(v uint32, n uint) {
	if n == 0 {
		return
	}
	w.total += int(n)
	if n < 32 {
		v &= (uint32(1) << n) - 1
	}

	room := 32 - w.nbit
	if n <= room {
		w.acc |= v << w.nbit
		w.nbit += n
		if w.nbit == 32 {
			w.bw.Put32(w.acc)
			w.acc = 0
			w.nbit = 0
		}
		return
	}

	// Fill the accumulator, flush, then push the remainder.
	w.acc |= v << w.nbit
	w.bw.Put32(w.acc)
	rem := n - room
	v >>= room
	w.acc = v
	w.nbit = rem
}

// PutZeroBits is the fast path for long runs of zero bits.
func (w *BitWriter) PutZeroBits(n int) {
	for n >= 32 {
		w.PutBits(0, 32)
		n -= 32
	}
	if n > 0 {
		w.PutBits(0, uint(n))
	}
}

// Bits returns the total number of bits pushed so far, ignoring Flush
// padding.
func (w *BitWriter) Bits() int {
	return w.total
}

// Flush emits a partially full accumulator padded with zeros. It must be
// called before any subsequent byte-aligned write and before end-of-block.
func (w *BitWriter) Flush() {
	if w.nbit > 0 {
		w.bw.Put32(w.acc)
		w.acc = 0
		w.nbit = 0
	}
}

// BitReader mirrors BitWriter for decoding.
type BitReader struct {
	br   *ByteReader
	acc  uint32
	nbit uint // bits remaining unread in acc
}

// NewBitReader creates a BitReader over br.
func NewBitReader(br *ByteReader) *BitReader {
	return &BitReader{br: br}
}

// GetBit pulls a single bit.
func (r *BitReader) GetBit() uint32 {
	if r.nbit == 0 {
		r.acc = r.br.Get32()
		r.nbit = 32
	}
	b := r.acc & 1
	r.acc >>= 1
	r.nbit--
	return b
}

// GetBits returns the next n LSBs, pulling 32-bit words as needed. n must
// be in [0,32].
func (r *BitReader) GetBits(n uint) uint32 {
	if n == 0 {
		return 0
	}
	if r.nbit >= n {
		var v uint32
		if n == 32 {
			v = r.acc
		} else {
			v = r.acc & ((uint32(1) << n) - 1)
		}
		if n < 32 {
			r.acc >>= n
		} else {
			r.acc = 0
		}
		r.nbit -= n
		return v
	}

	// Consume what remains, pull a fresh word, take the rest from it.
	lo := r.acc
	loBits := r.nbit
	r.acc = r.br.Get32()
	r.nbit = 32

	rem := n - loBits
	var hi uint32
	if rem == 32 {
		hi = r.acc
		r.acc = 0
	} else {
		hi = r.acc & ((uint32(1) << rem) - 1)
		r.acc >>= rem
	}
	r.nbit -= rem

	return lo | (hi << loBits)
}

// SkipBits advances the cursor by n bits without materializing them.
func (r *BitReader) SkipBits(n int) {
	for n > 0 {
		take := uint(32)
		if n < 32 {
			take = uint(n)
		}
		r.GetBits(take)
		n -= int(take)
	}
}
