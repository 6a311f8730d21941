package bitvector

import (
	"math/bits"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Container is the top-level sparse bit-vector: a sorted sparse map from
// block index to *Block. Blocks that were never touched are implicitly
// Absent and hold no entry, mirroring the native library's "unallocated
// block pointer is NULL" convention.
//
// WideAddress selects whether block indices (and therefore bit positions)
// span the 32-bit or 64-bit address space; it only affects the range
// Container accepts and the width streamop/blockcodec use for mono-run
// counts, not the in-memory representation.
type Container struct {
	WideAddress bool

	blocks  map[uint64]*Block
	indices []uint64 // kept sorted; rebuilt lazily
	dirty   bool
}

// New creates an empty Container.
func New(wideAddress bool) *Container {
	return &Container{WideAddress: wideAddress, blocks: make(map[uint64]*Block)}
}

func blockIndex(id uint64) uint64   { return id / BitsPerBlock }
func blockOffset(id uint64) uint16  { return uint16(id % BitsPerBlock) }

// Get reports whether bit id is set.
func (c *Container) Get(id uint64) bool {
	b, ok := c.blocks[blockIndex(id)]
	if !ok {
		return false
	}
	return b.Get(blockOffset(id))
}

// Set sets bit id, allocating a block on demand.
func (c *Container) Set(id uint64) {
	idx := blockIndex(id)
	b, ok := c.blocks[idx]
	if !ok {
		b = NewAbsentBlock()
		c.blocks[idx] = b
		c.dirty = true
	}
	b.Set(blockOffset(id))
}

// Clear clears bit id. A no-op if the owning block is absent.
func (c *Container) Clear(id uint64) {
	b, ok := c.blocks[blockIndex(id)]
	if !ok {
		return
	}
	b.Clear(blockOffset(id))
}

// BlockAt returns the block at index idx and whether it exists. The
// returned block must not be retained past the next mutating call.
func (c *Container) BlockAt(idx uint64) (*Block, bool) {
	b, ok := c.blocks[idx]
	return b, ok
}

// SetBlock installs b as the block at idx, replacing whatever was there.
// Passing a nil b or an Absent block with no payload removes the entry so
// empty indices don't linger in the sparse map.
func (c *Container) SetBlock(idx uint64, b *Block) {
	if b == nil || b.Kind == Absent {
		if _, ok := c.blocks[idx]; ok {
			delete(c.blocks, idx)
			c.dirty = true
		}
		return
	}
	if _, existed := c.blocks[idx]; !existed {
		c.dirty = true
	}
	c.blocks[idx] = b
}

// DeleteBlock removes the block at idx entirely, reverting it to Absent.
func (c *Container) DeleteBlock(idx uint64) {
	if _, ok := c.blocks[idx]; ok {
		delete(c.blocks, idx)
		c.dirty = true
	}
}

// MaxBlockIndex returns the highest populated block index and whether the
// container has any blocks at all.
func (c *Container) MaxBlockIndex() (uint64, bool) {
	c.reindex()
	if len(c.indices) == 0 {
		return 0, false
	}
	return c.indices[len(c.indices)-1], true
}

// BlockIndices returns the sorted list of populated block indices.
// The returned slice must not be mutated by the caller.
func (c *Container) BlockIndices() []uint64 {
	c.reindex()
	return c.indices
}

func (c *Container) reindex() {
	if !c.dirty && c.indices != nil {
		return
	}
	c.indices = make([]uint64, 0, len(c.blocks))
	for idx := range c.blocks {
		c.indices = append(c.indices, idx)
	}
	sort.Slice(c.indices, func(i, j int) bool { return c.indices[i] < c.indices[j] })
	c.dirty = false
}

// FindNextNonZeroBlock returns the smallest populated block index >= from
// whose block is neither Absent nor an all-zero materialized block, and
// whether one exists.
func (c *Container) FindNextNonZeroBlock(from uint64) (uint64, *Block, bool) {
	c.reindex()
	i := sort.Search(len(c.indices), func(i int) bool { return c.indices[i] >= from })
	for ; i < len(c.indices); i++ {
		idx := c.indices[i]
		b := c.blocks[idx]
		if b.Kind == Absent {
			continue
		}
		if (b.Kind == Bit || b.Kind == GAP) && b.PopCount() == 0 {
			continue
		}
		return idx, b, true
	}
	return 0, nil, false
}

// PopCount returns the total number of set bits across the whole container.
func (c *Container) PopCount() uint64 {
	var n uint64
	for _, b := range c.blocks {
		n += uint64(b.PopCount())
	}
	return n
}

// And, Or, Xor, Sub apply the logical operation in place: c = c OP other.
// Each delegates block-by-block to Block's own combinators, materializing
// an Absent block in c when other contributes bits it lacked.
func (c *Container) And(other *Container) { c.combine(other, combineAnd) }
func (c *Container) Or(other *Container)  { c.combine(other, combineOr) }
func (c *Container) Xor(other *Container) { c.combine(other, combineXor) }
func (c *Container) Sub(other *Container) { c.combine(other, combineSub) }

type combineFn func(a, b *Block) *Block

func (c *Container) combine(other *Container, fn combineFn) {
	c.reindex()
	other.reindex()

	seen := make(map[uint64]bool, len(c.indices)+len(other.indices))
	all := append(append([]uint64(nil), c.indices...), other.indices...)
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })

	for _, idx := range all {
		if seen[idx] {
			continue
		}
		seen[idx] = true

		a, _ := c.blocks[idx]
		if a == nil {
			a = NewAbsentBlock()
		}
		ob, _ := other.blocks[idx]
		if ob == nil {
			ob = NewAbsentBlock()
		}
		c.SetBlock(idx, fn(a, ob))
	}
}

func combineAnd(a, b *Block) *Block {
	if a.Kind == Absent || b.Kind == Absent {
		return NewAbsentBlock()
	}
	if a.Kind == AllSet {
		return b.Clone()
	}
	if b.Kind == AllSet {
		return a.Clone()
	}
	aw, bw := a.ToBitWords(), b.ToBitWords()
	out := &Block{Kind: Bit, Words: aw}
	for i := range out.Words {
		out.Words[i] &= bw[i]
	}
	return out
}

func combineOr(a, b *Block) *Block {
	if a.Kind == AllSet || b.Kind == AllSet {
		return NewAllSetBlock()
	}
	if a.Kind == Absent {
		return b.Clone()
	}
	if b.Kind == Absent {
		return a.Clone()
	}
	aw, bw := a.ToBitWords(), b.ToBitWords()
	out := &Block{Kind: Bit, Words: aw}
	for i := range out.Words {
		out.Words[i] |= bw[i]
	}
	return out
}

func combineXor(a, b *Block) *Block {
	if a.Kind == Absent {
		return b.Clone()
	}
	if b.Kind == Absent {
		return a.Clone()
	}
	aw, bw := a.ToBitWords(), b.ToBitWords()
	out := &Block{Kind: Bit, Words: aw}
	for i := range out.Words {
		out.Words[i] ^= bw[i]
	}
	return out
}

func combineSub(a, b *Block) *Block {
	if a.Kind == Absent || b.Kind == AllSet {
		return NewAbsentBlock()
	}
	if b.Kind == Absent {
		return a.Clone()
	}
	aw, bw := a.ToBitWords(), b.ToBitWords()
	out := &Block{Kind: Bit, Words: aw}
	for i := range out.Words {
		out.Words[i] &^= bw[i]
	}
	return out
}

// ToRoaring converts the container into a roaring.Bitmap, giving callers
// interop with Roaring-based query engines without re-walking bits
// themselves. Only meaningful in narrow-address mode (ids < 2^32).
func (c *Container) ToRoaring() *roaring.Bitmap {
	rb := roaring.New()
	c.reindex()
	for _, idx := range c.indices {
		b := c.blocks[idx]
		base := idx * BitsPerBlock
		switch b.Kind {
		case AllSet:
			rb.AddRange(base, base+BitsPerBlock)
		case Bit:
			for w := 0; w < WordsPerBlock; w++ {
				word := b.Words[w]
				for word != 0 {
					bit := bits.TrailingZeros32(word)
					rb.Add(uint32(base) + uint32(w)*32 + uint32(bit))
					word &= word - 1
				}
			}
		case GAP:
			v := b.StartsSet
			start := uint16(0)
			for _, end := range b.Ends {
				if v {
					rb.AddRange(base+uint64(start), base+uint64(end)+1)
				}
				if end == GAPTerminal {
					break
				}
				start = end + 1
				v = !v
			}
		}
	}
	return rb
}

// FromRoaring returns a new Container holding rb's bits.
func FromRoaring(rb *roaring.Bitmap, wideAddress bool) *Container {
	c := New(wideAddress)
	it := rb.Iterator()
	for it.HasNext() {
		id := it.Next()
		c.Set(uint64(id))
	}
	return c
}
