// Package blowfish implements the Blowfish block cipher together with the
// CBC chaining layer used by the legacy vault wire format.
//
// Blocks are handled as 64-bit values (high word = left half) and the CBC
// chain state is exposed so it can be reset between messages. Output is
// identical to golang.org/x/crypto/blowfish.
//
// # Concurrency
//
// An [ECB] is immutable once constructed and may be shared by any number of
// goroutines.  A [CBC] carries a mutable chain state and must have a single
// owner; build one per message with [NewCBCFromECB] when the schedule is
// shared.
package blowfish

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// BlockSize is the Blowfish block size in bytes.
	BlockSize = 8

	// MaxKeySize is the longest key that contributes to the schedule.
	// Longer keys are silently truncated.
	MaxKeySize = 56
)

const (
	pEntries    = 18
	sBoxEntries = 256
)

// ErrBufferLength is returned by the buffer-level operations when the input
// does not consist of whole 64-bit blocks.
var ErrBufferLength = errors.New("blowfish: buffer is not a whole number of blocks")

// ECB is a Blowfish engine in electronic codebook mode: a key schedule plus
// the block primitives.  It also satisfies crypto/cipher.Block so that it can
// be plugged into the standard library's block modes.
type ECB struct {
	p              [pEntries]uint32
	s0, s1, s2, s3 [sBoxEntries]uint32
}

// NewECB derives a key schedule from key.  An empty key leaves the pi-derived
// tables untouched before the bootstrap; keys over [MaxKeySize] bytes are
// truncated.
func NewECB(key []byte) *ECB {
	c := &ECB{
		p:  initP,
		s0: initS0,
		s1: initS1,
		s2: initS2,
		s3: initS3,
	}
	if len(key) > MaxKeySize {
		key = key[:MaxKeySize]
	}
	c.expandKey(key)
	return c
}

// expandKey XORs the cyclically repeated key into P, then replaces P and the
// four S-boxes with successive encryptions of the all-zero block.
func (c *ECB) expandKey(key []byte) {
	if len(key) > 0 {
		j := 0
		for i := 0; i < pEntries; i++ {
			var d uint32
			for k := 0; k < 4; k++ {
				d = d<<8 | uint32(key[j])
				j++
				if j >= len(key) {
					j = 0
				}
			}
			c.p[i] ^= d
		}
	}

	var l, r uint32
	for i := 0; i < pEntries; i += 2 {
		l, r = c.encrypt(l, r)
		c.p[i], c.p[i+1] = l, r
	}
	for _, s := range []*[sBoxEntries]uint32{&c.s0, &c.s1, &c.s2, &c.s3} {
		for i := 0; i < sBoxEntries; i += 2 {
			l, r = c.encrypt(l, r)
			s[i], s[i+1] = l, r
		}
	}
}

// f is the Blowfish round function.
func (c *ECB) f(x uint32) uint32 {
	return ((c.s0[byte(x>>24)] + c.s1[byte(x>>16)]) ^ c.s2[byte(x>>8)]) + c.s3[byte(x)]
}

// encrypt runs the 16 Feistel rounds over the halves (hi, lo).
func (c *ECB) encrypt(hi, lo uint32) (uint32, uint32) {
	xl, xr := hi, lo
	xl ^= c.p[0]
	xr ^= c.f(xl) ^ c.p[1]
	xl ^= c.f(xr) ^ c.p[2]
	xr ^= c.f(xl) ^ c.p[3]
	xl ^= c.f(xr) ^ c.p[4]
	xr ^= c.f(xl) ^ c.p[5]
	xl ^= c.f(xr) ^ c.p[6]
	xr ^= c.f(xl) ^ c.p[7]
	xl ^= c.f(xr) ^ c.p[8]
	xr ^= c.f(xl) ^ c.p[9]
	xl ^= c.f(xr) ^ c.p[10]
	xr ^= c.f(xl) ^ c.p[11]
	xl ^= c.f(xr) ^ c.p[12]
	xr ^= c.f(xl) ^ c.p[13]
	xl ^= c.f(xr) ^ c.p[14]
	xr ^= c.f(xl) ^ c.p[15]
	xl ^= c.f(xr) ^ c.p[16]
	xr ^= c.p[17]
	return xr, xl
}

// decrypt is encrypt with the P-array consumed in reverse.
func (c *ECB) decrypt(hi, lo uint32) (uint32, uint32) {
	xl, xr := hi, lo
	xl ^= c.p[17]
	xr ^= c.f(xl) ^ c.p[16]
	xl ^= c.f(xr) ^ c.p[15]
	xr ^= c.f(xl) ^ c.p[14]
	xl ^= c.f(xr) ^ c.p[13]
	xr ^= c.f(xl) ^ c.p[12]
	xl ^= c.f(xr) ^ c.p[11]
	xr ^= c.f(xl) ^ c.p[10]
	xl ^= c.f(xr) ^ c.p[9]
	xr ^= c.f(xl) ^ c.p[8]
	xl ^= c.f(xr) ^ c.p[7]
	xr ^= c.f(xl) ^ c.p[6]
	xl ^= c.f(xr) ^ c.p[5]
	xr ^= c.f(xl) ^ c.p[4]
	xl ^= c.f(xr) ^ c.p[3]
	xr ^= c.f(xl) ^ c.p[2]
	xl ^= c.f(xr) ^ c.p[1]
	xr ^= c.p[0]
	return xr, xl
}

// EncryptBlock encrypts one 64-bit block; the high word is the left half.
func (c *ECB) EncryptBlock(block uint64) uint64 {
	hi, lo := c.encrypt(uint32(block>>32), uint32(block))
	return uint64(hi)<<32 | uint64(lo)
}

// DecryptBlock decrypts one 64-bit block.
func (c *ECB) DecryptBlock(block uint64) uint64 {
	hi, lo := c.decrypt(uint32(block>>32), uint32(block))
	return uint64(hi)<<32 | uint64(lo)
}

// ──────────────────────────────────────────────────────────────────────────────
// crypto/cipher.Block
// ──────────────────────────────────────────────────────────────────────────────

// BlockSize returns the Blowfish block size, 8.
func (c *ECB) BlockSize() int { return BlockSize }

// Encrypt encrypts the first block of src into dst.  dst and src may overlap
// entirely.
func (c *ECB) Encrypt(dst, src []byte) {
	binary.BigEndian.PutUint64(dst, c.EncryptBlock(binary.BigEndian.Uint64(src)))
}

// Decrypt decrypts the first block of src into dst.
func (c *ECB) Decrypt(dst, src []byte) {
	binary.BigEndian.PutUint64(dst, c.DecryptBlock(binary.BigEndian.Uint64(src)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Buffer operations
// ──────────────────────────────────────────────────────────────────────────────

// EncryptBytes encrypts buf in place, block by block.
func (c *ECB) EncryptBytes(buf []byte) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	for i := 0; i < len(buf); i += BlockSize {
		c.Encrypt(buf[i:], buf[i:])
	}
	return nil
}

// DecryptBytes decrypts buf in place.
func (c *ECB) DecryptBytes(buf []byte) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	for i := 0; i < len(buf); i += BlockSize {
		c.Decrypt(buf[i:], buf[i:])
	}
	return nil
}

// EncryptWords encrypts pairs of 32-bit words in place.
func (c *ECB) EncryptWords(words []uint32) error {
	if len(words)%2 != 0 {
		return fmt.Errorf("%w: %d words", ErrBufferLength, len(words))
	}
	for i := 0; i < len(words); i += 2 {
		words[i], words[i+1] = c.encrypt(words[i], words[i+1])
	}
	return nil
}

// DecryptWords decrypts pairs of 32-bit words in place.
func (c *ECB) DecryptWords(words []uint32) error {
	if len(words)%2 != 0 {
		return fmt.Errorf("%w: %d words", ErrBufferLength, len(words))
	}
	for i := 0; i < len(words); i += 2 {
		words[i], words[i+1] = c.decrypt(words[i], words[i+1])
	}
	return nil
}

// EncryptBlocks encrypts each 64-bit block in place.
func (c *ECB) EncryptBlocks(blocks []uint64) {
	for i, b := range blocks {
		blocks[i] = c.EncryptBlock(b)
	}
}

// DecryptBlocks decrypts each 64-bit block in place.
func (c *ECB) DecryptBlocks(blocks []uint64) {
	for i, b := range blocks {
		blocks[i] = c.DecryptBlock(b)
	}
}

// WeakKey reports whether any S-box contains a repeated entry.  Such a
// schedule is treated as weak by the legacy vault client.
func (c *ECB) WeakKey() bool {
	for _, s := range []*[sBoxEntries]uint32{&c.s0, &c.s1, &c.s2, &c.s3} {
		seen := make(map[uint32]struct{}, sBoxEntries)
		for _, v := range s {
			if _, dup := seen[v]; dup {
				return true
			}
			seen[v] = struct{}{}
		}
	}
	return false
}

// Wipe zeroes the schedule.  The engine must not be used afterwards.
func (c *ECB) Wipe() {
	c.p = [pEntries]uint32{}
	c.s0 = [sBoxEntries]uint32{}
	c.s1 = [sBoxEntries]uint32{}
	c.s2 = [sBoxEntries]uint32{}
	c.s3 = [sBoxEntries]uint32{}
}

func checkBytes(buf []byte) error {
	if len(buf)%BlockSize != 0 {
		return fmt.Errorf("%w: %d bytes", ErrBufferLength, len(buf))
	}
	return nil
}
