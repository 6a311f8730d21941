// Package bitio implements the byte-stream and unaligned bit-stream
// primitives the serialization core is built on.
//
// ByteWriter/ByteReader are little-endian regardless of host order, with an
// explicit opt-in to byte-swapped mode for streams produced on a
// foreign-endian host. BitWriter/BitReader implement a 32-bit accumulator
// bit queue: bits are pushed/pulled LSB-first, with no framing between
// writer and reader — a BitReader must be driven by the same sequence of
// Get calls the BitWriter was driven by.
package bitio
