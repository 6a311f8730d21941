package bmserial

import "github.com/hupe1980/bmserial/bitio"

// headerFlags mirrors spec's HeaderFlags bitfield.
type headerFlags uint8

const (
	flagDefault headerFlags = 1 << 0
	flagResize  headerFlags = 1 << 1
	flagIDList  headerFlags = 1 << 2
	flagNoBO    headerFlags = 1 << 3
	flagNoGapL  headerFlags = 1 << 4
	flagWide64  headerFlags = 1 << 5
)

// streamHeader is the parsed form of Header ::= HeaderFlags:u8 [ByteOrder:u8]
// [GapLevels:u16[4]] [Size:u32|u64].
type streamHeader struct {
	flags     headerFlags
	byteOrder byte // 0 when host-order; nonzero marks a foreign stream
	gapLevels [4]uint16
	size      uint64
}

// hostByteOrderByte is the constant this codec writes into a stream's
// ByteOrder field; any other value on read triggers the byte-swap retry.
const hostByteOrderByte = 0x00

func writeHeader(bw *bitio.ByteWriter, o options, size uint64) {
	flags := flagDefault | flagResize
	if !o.byteOrderSer {
		flags |= flagNoBO
	}
	if !o.gapLengthSer {
		flags |= flagNoGapL
	}
	if o.wideAddress {
		flags |= flagWide64
	}

	bw.Put8(byte(flags))
	if o.byteOrderSer {
		bw.Put8(hostByteOrderByte)
	}
	if o.gapLengthSer {
		for _, lvl := range defaultGapLevels {
			bw.Put16(lvl)
		}
	}
	if o.wideAddress {
		bw.Put64(size)
	} else {
		bw.Put32(uint32(size))
	}
}

// defaultGapLevels is written into the optional GapLevels array. This codec
// has no notion of native GAP capacity tiers (see DESIGN.md); the values
// are carried for wire compatibility only and ignored on read.
var defaultGapLevels = [4]uint16{128, 512, 2048, 8192}

func readHeader(br *bitio.ByteReader) (streamHeader, error) {
	if br.Len() < 1 {
		return streamHeader{}, &FormatError{Reason: "truncated header: missing flags byte"}
	}
	h := streamHeader{flags: headerFlags(br.Get8())}

	if h.flags&flagNoBO == 0 {
		if br.Len() < 1 {
			return streamHeader{}, &FormatError{Reason: "truncated header: missing byte-order byte"}
		}
		h.byteOrder = br.Get8()
		// Every multi-byte field from here on — GapLevels, Size, and the
		// whole body — was written in h.byteOrder's endianness, so the
		// reader must start swapping before decoding any of them.
		if h.foreignByteOrder() {
			br.SetByteSwap(true)
		}
	}

	if h.flags&flagNoGapL == 0 {
		if br.Len() < 8 {
			return streamHeader{}, &FormatError{Reason: "truncated header: missing gap-levels array"}
		}
		for i := range h.gapLevels {
			h.gapLevels[i] = br.Get16()
		}
	}

	if h.flags&flagResize != 0 {
		wide := h.flags&flagWide64 != 0
		need := 4
		if wide {
			need = 8
		}
		if br.Len() < need {
			return streamHeader{}, &FormatError{Reason: "truncated header: missing size field"}
		}
		if wide {
			h.size = br.Get64()
		} else {
			h.size = uint64(br.Get32())
		}
	}

	return h, nil
}

// wide reports whether a stream was produced in 64-BIT mode.
func (h streamHeader) wide() bool { return h.flags&flagWide64 != 0 }

// foreignByteOrder reports whether h.byteOrder disagrees with this host,
// i.e. the stream needs a byte-swapping reader.
func (h streamHeader) foreignByteOrder() bool {
	return h.flags&flagNoBO == 0 && h.byteOrder != hostByteOrderByte
}
