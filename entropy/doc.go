// Package entropy implements the two prefix codes the block codec layers
// its variable-cost representations on: Elias-Gamma for single positive
// integers, and center-minimal Binary Interpolative Coding (BIC) for sorted
// integer arrays over a known inclusive range. Both ride on bitio's
// unaligned bit streams; encoder and decoder must stay byte-exactly
// symmetric, so every recursive step here mirrors its decode counterpart
// one-to-one.
package entropy
