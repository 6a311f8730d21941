// Package bitvector implements the sparse bit-vector container the codec
// treats as an external collaborator: block allocation, bit-block/GAP-block
// conversion, digest computation, and the logical primitives (AND/OR/XOR/SUB,
// population count, change count, find-next-nonzero-block) that
// package blockcodec and package streamop drive from the serialized form.
//
// Address space is partitioned into fixed 65536-bit blocks. A Block is one
// of four runtime forms: absent (logical zero, no storage), all-set (logical
// one, no storage), a materialized bit-block (2048 32-bit words), or a
// materialized GAP block (a strictly increasing []uint16 of run endpoints
// terminated by 65535). Container indexes blocks by block number and never
// materializes storage for an absent or all-set block.
package bitvector
