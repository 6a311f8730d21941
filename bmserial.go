// Package bmserial implements a BitMagic-style compressed serialization
// format for sparse 65536-bit-block bit-vectors: a per-block model
// selector and encoder/decoder, a stream iterator, and a streaming
// boolean-operation engine that can combine a serialized blob against an
// in-memory vector without fully materializing it.
package bmserial

import (
	"context"

	"github.com/hupe1980/bmserial/bitio"
	"github.com/hupe1980/bmserial/bitvector"
	"github.com/hupe1980/bmserial/blockcodec"
	"github.com/hupe1980/bmserial/streamop"
)

// Serialize writes bv's serialized form into buf, returning the number of
// bytes written. Returns a *CapacityError if buf is too small; callers
// should either size buf generously or use SerializeIntoResizable.
func Serialize(bv *bitvector.Container, buf []byte, opts ...Option) (n int, err error) {
	o := applyOptions(opts)
	defer func() {
		if r := recover(); r != nil {
			err = recoverCapacityError(r)
			o.logger.LogSerialize(context.Background(), o.compressionLevel, 0, nil, err)
		}
	}()

	bw := bitio.NewByteWriter(buf)
	size := containerSize(bv)
	writeHeader(bw, o, size)

	stats := &blockcodec.Stats{}
	encodeBody(bw, bv, o.compressionLevel, stats, false)

	n = bw.Pos()
	o.logger.LogSerialize(context.Background(), o.compressionLevel, n, stats, nil)
	return n, nil
}

// SerializeIntoResizable serializes bv into a freshly allocated buffer
// sized exactly to the output, returning the buffer, the per-block-type
// emission statistics, and any error. It sizes the buffer with one
// deterministic dry-run pass instead of an over-sized guess.
func SerializeIntoResizable(bv *bitvector.Container, opts ...Option) (buf []byte, stats *blockcodec.Stats, err error) {
	o := applyOptions(opts)

	size := containerSize(bv)
	bodySize := sizeBody(bv, o.compressionLevel)
	headerSize := headerSizeFor(o)

	buf = make([]byte, headerSize+bodySize)
	bw := bitio.NewByteWriter(buf)
	writeHeader(bw, o, size)

	stats = &blockcodec.Stats{}
	encodeBody(bw, bv, o.compressionLevel, stats, false)

	o.logger.LogSerialize(context.Background(), o.compressionLevel, bw.Pos(), stats, nil)
	return buf[:bw.Pos()], stats, nil
}

// OptimizeSerializeDestroy serializes bv like SerializeIntoResizable, then
// reverts every block it wrote to Absent in bv, per spec's caller-opt-in
// destructive mode. bv is left holding only whatever blocks the encoder
// never got to serialize (none, on success).
func OptimizeSerializeDestroy(bv *bitvector.Container, opts ...Option) (buf []byte, err error) {
	o := applyOptions(opts)

	size := containerSize(bv)
	bodySize := sizeBody(bv, o.compressionLevel)
	headerSize := headerSizeFor(o)

	buf = make([]byte, headerSize+bodySize)
	bw := bitio.NewByteWriter(buf)
	writeHeader(bw, o, size)

	encodeBody(bw, bv, o.compressionLevel, nil, true)

	o.logger.LogSerialize(context.Background(), o.compressionLevel, bw.Pos(), nil, nil)
	return buf[:bw.Pos()], nil
}

// Deserialize OR-combines buf's encoded bit-vector into bv, returning the
// number of bytes consumed.
func Deserialize(bv *bitvector.Container, buf []byte, opts ...Option) (n int, err error) {
	o := applyOptions(opts)
	defer func() {
		err = translateError(err)
		o.logger.LogDeserialize(context.Background(), n, err)
	}()

	br, h, rerr := openBody(buf)
	if rerr != nil {
		return 0, rerr
	}
	if h.foreignByteOrder() {
		o.logger.LogByteOrderSwap(context.Background())
	}

	it := streamop.NewIterator(br)
	eng := &streamop.Engine{Op: streamop.OpOr}
	_, _, rerr = eng.Run(it, bv, effectiveBlockLimit(bv, h))
	if rerr != nil {
		return 0, rerr
	}
	return br.Pos(), nil
}

// OperationDeserialize streams op against bv block-by-block without fully
// materializing buf's vector, returning the population count of the
// combined result. If exitOnOne is set, the walk stops and returns 1 as
// soon as any processed block's combined result is non-empty.
func OperationDeserialize(bv *bitvector.Container, buf []byte, op streamop.Op, exitOnOne bool, opts ...Option) (count uint64, err error) {
	o := applyOptions(opts)
	defer func() {
		err = translateError(err)
		o.logger.LogOperation(context.Background(), opName(op), exitOnOne, count, err)
	}()

	br, h, rerr := openBody(buf)
	if rerr != nil {
		return 0, rerr
	}
	if h.foreignByteOrder() {
		o.logger.LogByteOrderSwap(context.Background())
	}

	it := streamop.NewIterator(br)
	eng := &streamop.Engine{Op: op, ExitOnOne: exitOnOne}
	count, _, rerr = eng.Run(it, bv, effectiveBlockLimit(bv, h))
	return count, rerr
}

// DeserializeRange OR-combines only the [from, to] block-index range of
// buf's encoded vector into bv; blocks outside the range are skipped
// without allocating.
func DeserializeRange(bv *bitvector.Container, buf []byte, from, to uint64, opts ...Option) (err error) {
	o := applyOptions(opts)
	defer func() {
		err = translateError(err)
		o.logger.LogDeserialize(context.Background(), 0, err)
	}()

	br, h, rerr := openBody(buf)
	if rerr != nil {
		return rerr
	}
	if h.foreignByteOrder() {
		o.logger.LogByteOrderSwap(context.Background())
	}

	it := streamop.NewIterator(br)
	eng := &streamop.Engine{Op: streamop.OpOr, From: &from, To: &to}
	_, _, rerr = eng.Run(it, bv, to+1)
	return rerr
}

// openBody parses the header, recovers from a foreign byte order
// transparently by switching the reader into swap mode, and returns a
// reader positioned at the start of the block-encoded body along with the
// parsed header (callers pass it to effectiveBlockLimit, which bounds "all
// remaining blocks" events by the stream's declared address space extended
// to cover the target container's current extent).
func openBody(buf []byte) (*bitio.ByteReader, streamHeader, error) {
	br := bitio.NewByteReader(buf)
	h, err := readHeader(br)
	if err != nil {
		return nil, streamHeader{}, err
	}
	if h.flags&flagIDList != 0 {
		return nil, streamHeader{}, &FormatError{Reason: "ID_LIST header mode is read-only legacy and not yet wired into this decoder"}
	}
	return br, h, nil
}

// blockLimitFor returns the block-index upper bound (exclusive) implied by
// a parsed header's declared Size, or a practically unbounded limit when
// the stream declared DEFAULT (full address space, no Size field).
func blockLimitFor(h streamHeader) uint64 {
	if h.flags&flagResize == 0 {
		return ^uint64(0)
	}
	return (h.size + bitvector.BitsPerBlock - 1) / bitvector.BitsPerBlock
}

// effectiveBlockLimit extends the stream's own declared limit to cover
// whatever bv already holds: an AND/ASSIGN walk has to clear every block
// in bv beyond the source's last explicit token, including blocks past
// the source's declared address space, since the source has no bits set
// there either.
func effectiveBlockLimit(bv *bitvector.Container, h streamHeader) uint64 {
	limit := blockLimitFor(h)
	if maxIdx, ok := bv.MaxBlockIndex(); ok && maxIdx+1 > limit {
		return maxIdx + 1
	}
	return limit
}

func containerSize(bv *bitvector.Container) uint64 {
	maxIdx, ok := bv.MaxBlockIndex()
	if !ok {
		return 0
	}
	return (maxIdx + 1) * bitvector.BitsPerBlock
}

func headerSizeFor(o options) int {
	n := 1 // flags
	if o.byteOrderSer {
		n++
	}
	if o.gapLengthSer {
		n += 8
	}
	if o.wideAddress {
		n += 8
	} else {
		n += 4
	}
	return n
}

func recoverCapacityError(r any) error {
	if ce, ok := r.(*bitio.CapacityError); ok {
		return &CapacityError{cause: ce}
	}
	panic(r)
}

func opName(op streamop.Op) string {
	switch op {
	case streamop.OpOr:
		return "or"
	case streamop.OpAnd:
		return "and"
	case streamop.OpXor:
		return "xor"
	case streamop.OpSub:
		return "sub"
	case streamop.OpAssign:
		return "assign"
	default:
		return "unknown"
	}
}
