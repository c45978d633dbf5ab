package blowfish

import (
	"errors"
	"fmt"
)

// ErrSelfTest is returned by [SelfTest] when a known-answer vector fails.
var ErrSelfTest = errors.New("blowfish: self-test failed")

// Vector is a known-answer test case: Plain encrypts to Cipher under Key.
type Vector struct {
	Key    []byte
	Plain  uint64
	Cipher uint64
}

// Vectors are the reference vectors the legacy client checks at start-up.
// The first key has its high bits set in most bytes, which catches key
// schedules that sign-extend bytes when packing them into words.
var Vectors = []Vector{
	{
		Key:    []byte{0x1c, 0x58, 0x7f, 0x1c, 0x13, 0x92, 0x4f, 0xef},
		Plain:  0x305532286d6f295a,
		Cipher: 0x55cb3774d13ef201,
	},
	{
		Key:    []byte("Who is John Galt?"),
		Plain:  0xfedcba9876543210,
		Cipher: 0xcc91732b8022f684,
	},
}

// SelfTest runs every entry of [Vectors] through EncryptBlock and
// DecryptBlock.
func SelfTest() error {
	for i, v := range Vectors {
		c := NewECB(v.Key)
		if got := c.EncryptBlock(v.Plain); got != v.Cipher {
			return fmt.Errorf("%w: vector %d encrypts to %016x, want %016x", ErrSelfTest, i, got, v.Cipher)
		}
		if got := c.DecryptBlock(v.Cipher); got != v.Plain {
			return fmt.Errorf("%w: vector %d decrypts to %016x, want %016x", ErrSelfTest, i, got, v.Plain)
		}
	}
	return nil
}
