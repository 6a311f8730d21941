// Package hash provides fast, hardware-accelerated hashing utilities for
// data integrity checks on blob uploads and downloads.
//
// # CRC32-Castagnoli (CRC32C)
//
// Blob checksums use CRC32-Castagnoli (CRC32C), which provides:
//
//   - Hardware acceleration on x86 (SSE4.2) and ARM (CRC extension)
//   - Superior error detection compared to CRC32-IEEE
//   - Industry standard (iSCSI, Btrfs, RocksDB, LevelDB), and what S3's
//     ChecksumCRC32C field expects
//
// # Usage
//
// For one-shot checksums:
//
//	checksum := hash.CRC32C(data)
//
// For streaming checksums:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
