package blowfish

import (
	"encoding/binary"
	"fmt"
)

// CBC chains an [ECB] engine in cipher block chaining mode.  The chain state
// (the IV) is the last ciphertext block seen in either direction and is
// updated once per block, so blocks must be processed strictly in order and
// the IV must be reset for every logical message.
//
// A CBC is not safe for concurrent use.
type CBC struct {
	ecb *ECB
	iv  uint64
}

// NewCBC derives a key schedule from key and starts the chain at iv.
func NewCBC(key []byte, iv uint64) *CBC {
	return &CBC{ecb: NewECB(key), iv: iv}
}

// NewCBCFromECB chains an existing engine.  The schedule is shared, not
// copied, which makes a CBC per message cheap.
func NewCBCFromECB(ecb *ECB, iv uint64) *CBC {
	return &CBC{ecb: ecb, iv: iv}
}

// ECB returns the underlying engine.
func (c *CBC) ECB() *ECB { return c.ecb }

// IV returns the current chain state.
func (c *CBC) IV() uint64 { return c.iv }

// SetIV replaces the chain state.
func (c *CBC) SetIV(iv uint64) { c.iv = iv }

// IVBytes returns the chain state as 8 big-endian bytes.
func (c *CBC) IVBytes() []byte {
	b := make([]byte, BlockSize)
	binary.BigEndian.PutUint64(b, c.iv)
	return b
}

// SetIVBytes replaces the chain state from 8 big-endian bytes.
func (c *CBC) SetIVBytes(iv []byte) error {
	if len(iv) != BlockSize {
		return fmt.Errorf("blowfish: IV must be %d bytes, got %d", BlockSize, len(iv))
	}
	c.iv = binary.BigEndian.Uint64(iv)
	return nil
}

// EncryptBlock XORs block with the chain state, encrypts it and makes the
// result the new chain state.
func (c *CBC) EncryptBlock(block uint64) uint64 {
	c.iv = c.ecb.EncryptBlock(block ^ c.iv)
	return c.iv
}

// DecryptBlock decrypts block, XORs it with the chain state and makes the
// ciphertext block the new chain state.
func (c *CBC) DecryptBlock(block uint64) uint64 {
	plain := c.ecb.DecryptBlock(block) ^ c.iv
	c.iv = block
	return plain
}

// EncryptBytes encrypts buf in place.
func (c *CBC) EncryptBytes(buf []byte) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	for i := 0; i < len(buf); i += BlockSize {
		b := buf[i : i+BlockSize]
		binary.BigEndian.PutUint64(b, c.EncryptBlock(binary.BigEndian.Uint64(b)))
	}
	return nil
}

// DecryptBytes decrypts buf in place.
func (c *CBC) DecryptBytes(buf []byte) error {
	if err := checkBytes(buf); err != nil {
		return err
	}
	for i := 0; i < len(buf); i += BlockSize {
		b := buf[i : i+BlockSize]
		binary.BigEndian.PutUint64(b, c.DecryptBlock(binary.BigEndian.Uint64(b)))
	}
	return nil
}

// EncryptWords encrypts (hi, lo) word pairs in place.
func (c *CBC) EncryptWords(words []uint32) error {
	if len(words)%2 != 0 {
		return fmt.Errorf("%w: %d words", ErrBufferLength, len(words))
	}
	for i := 0; i < len(words); i += 2 {
		out := c.EncryptBlock(uint64(words[i])<<32 | uint64(words[i+1]))
		words[i], words[i+1] = uint32(out>>32), uint32(out)
	}
	return nil
}

// DecryptWords decrypts (hi, lo) word pairs in place.
func (c *CBC) DecryptWords(words []uint32) error {
	if len(words)%2 != 0 {
		return fmt.Errorf("%w: %d words", ErrBufferLength, len(words))
	}
	for i := 0; i < len(words); i += 2 {
		out := c.DecryptBlock(uint64(words[i])<<32 | uint64(words[i+1]))
		words[i], words[i+1] = uint32(out>>32), uint32(out)
	}
	return nil
}

// EncryptBlocks encrypts blocks in place.
func (c *CBC) EncryptBlocks(blocks []uint64) {
	for i, b := range blocks {
		blocks[i] = c.EncryptBlock(b)
	}
}

// DecryptBlocks decrypts blocks in place.
func (c *CBC) DecryptBlocks(blocks []uint64) {
	for i, b := range blocks {
		blocks[i] = c.DecryptBlock(b)
	}
}
