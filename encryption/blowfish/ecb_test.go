package blowfish_test

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"testing"

	xblowfish "golang.org/x/crypto/blowfish"

	"github.com/hasbyte1/go-vault-crypto/encryption/blowfish"
)

// ──────────────────────────────────────────────────────────────────────────────
// Known-answer vectors
// ──────────────────────────────────────────────────────────────────────────────

func TestSelfTest(t *testing.T) {
	if err := blowfish.SelfTest(); err != nil {
		t.Fatal(err)
	}
}

func TestEncryptBlock_Vectors(t *testing.T) {
	tests := []struct {
		name   string
		key    []byte
		plain  uint64
		cipher uint64
	}{
		{"high-bit key bytes", []byte{0x1c, 0x58, 0x7f, 0x1c, 0x13, 0x92, 0x4f, 0xef}, 0x305532286d6f295a, 0x55cb3774d13ef201},
		{"ascii key", []byte("Who is John Galt?"), 0xfedcba9876543210, 0xcc91732b8022f684},
		{"empty key zero block", nil, 0, 0x4ef997456198dd78},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := blowfish.NewECB(tt.key)
			if got := c.EncryptBlock(tt.plain); got != tt.cipher {
				t.Fatalf("EncryptBlock = %016x, want %016x", got, tt.cipher)
			}
			if got := c.DecryptBlock(tt.cipher); got != tt.plain {
				t.Fatalf("DecryptBlock = %016x, want %016x", got, tt.plain)
			}
		})
	}
}

func TestEncryptWords_Vector(t *testing.T) {
	c := blowfish.NewECB([]byte{0x1c, 0x58, 0x7f, 0x1c, 0x13, 0x92, 0x4f, 0xef})
	words := []uint32{0x30553228, 0x6d6f295a}
	if err := c.EncryptWords(words); err != nil {
		t.Fatal(err)
	}
	if words[0] != 0x55cb3774 || words[1] != 0xd13ef201 {
		t.Fatalf("EncryptWords = {%08x, %08x}", words[0], words[1])
	}
	if err := c.DecryptWords(words); err != nil {
		t.Fatal(err)
	}
	if words[0] != 0x30553228 || words[1] != 0x6d6f295a {
		t.Fatalf("DecryptWords = {%08x, %08x}", words[0], words[1])
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reference implementation agreement
// ──────────────────────────────────────────────────────────────────────────────

func TestECB_MatchesReference(t *testing.T) {
	for keyLen := 1; keyLen <= blowfish.MaxKeySize; keyLen += 5 {
		key := make([]byte, keyLen)
		_, _ = rand.Read(key)

		ref, err := xblowfish.NewCipher(key)
		if err != nil {
			t.Fatalf("reference cipher: %v", err)
		}
		c := blowfish.NewECB(key)

		src := make([]byte, blowfish.BlockSize)
		_, _ = rand.Read(src)
		want := make([]byte, blowfish.BlockSize)
		got := make([]byte, blowfish.BlockSize)

		ref.Encrypt(want, src)
		c.Encrypt(got, src)
		if !bytes.Equal(got, want) {
			t.Fatalf("key len %d: Encrypt = %x, want %x", keyLen, got, want)
		}

		ref.Decrypt(want, src)
		c.Decrypt(got, src)
		if !bytes.Equal(got, want) {
			t.Fatalf("key len %d: Decrypt = %x, want %x", keyLen, got, want)
		}
	}
}

func TestNewECB_TruncatesLongKeys(t *testing.T) {
	long := make([]byte, 72)
	for i := range long {
		long[i] = byte(i)
	}
	a := blowfish.NewECB(long)
	b := blowfish.NewECB(long[:blowfish.MaxKeySize])
	if a.EncryptBlock(0x0102030405060708) != b.EncryptBlock(0x0102030405060708) {
		t.Fatal("bytes beyond MaxKeySize must not affect the schedule")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Schedule properties
// ──────────────────────────────────────────────────────────────────────────────

func TestNewECB_Deterministic(t *testing.T) {
	key := []byte("deterministic schedule")
	a := blowfish.NewECB(key)
	b := blowfish.NewECB(append([]byte(nil), key...))
	for _, block := range []uint64{0, 1, 0xffffffffffffffff, 0xdeadbeefcafebabe} {
		if a.EncryptBlock(block) != b.EncryptBlock(block) {
			t.Fatalf("schedules diverge for block %016x", block)
		}
	}
}

func TestNewECB_KeySensitivity(t *testing.T) {
	a := blowfish.NewECB([]byte("key-a"))
	b := blowfish.NewECB([]byte("key-b"))
	if a.EncryptBlock(0) == b.EncryptBlock(0) {
		t.Fatal("different keys produced the same ciphertext")
	}
}

func TestECB_IdenticalBlocksEncryptIdentically(t *testing.T) {
	c := blowfish.NewECB([]byte("codebook"))
	blocks := []uint64{0x4141414141414141, 0x4141414141414141}
	c.EncryptBlocks(blocks)
	if blocks[0] != blocks[1] {
		t.Fatal("ECB must map equal blocks to equal ciphertext")
	}
	c.DecryptBlocks(blocks)
	if blocks[0] != 0x4141414141414141 || blocks[1] != 0x4141414141414141 {
		t.Fatalf("DecryptBlocks = %x", blocks)
	}
}

func TestWeakKey(t *testing.T) {
	for _, v := range blowfish.Vectors {
		if blowfish.NewECB(v.Key).WeakKey() {
			t.Errorf("key %x unexpectedly reported weak", v.Key)
		}
	}
}

func TestWipe(t *testing.T) {
	c := blowfish.NewECB([]byte("wipe me"))
	before := c.EncryptBlock(42)
	c.Wipe()
	if c.EncryptBlock(42) == before {
		t.Fatal("Wipe left the schedule intact")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Buffers
// ──────────────────────────────────────────────────────────────────────────────

func TestECB_Bytes_RoundTrip(t *testing.T) {
	c := blowfish.NewECB([]byte("buffer key"))
	plain := bytes.Repeat([]byte("0123456789abcdef"), 4)
	buf := append([]byte(nil), plain...)

	if err := c.EncryptBytes(buf); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(buf, plain) {
		t.Fatal("EncryptBytes left the buffer unchanged")
	}
	first := binary.BigEndian.Uint64(buf)
	if first != c.EncryptBlock(binary.BigEndian.Uint64(plain)) {
		t.Fatal("EncryptBytes and EncryptBlock disagree")
	}
	if err := c.DecryptBytes(buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, plain) {
		t.Fatalf("round-trip mismatch: %x", buf)
	}
}

func TestECB_RejectsPartialBlocks(t *testing.T) {
	c := blowfish.NewECB([]byte("k"))
	if err := c.EncryptBytes(make([]byte, 9)); !errors.Is(err, blowfish.ErrBufferLength) {
		t.Fatalf("EncryptBytes: got %v, want ErrBufferLength", err)
	}
	if err := c.DecryptBytes(make([]byte, 7)); !errors.Is(err, blowfish.ErrBufferLength) {
		t.Fatalf("DecryptBytes: got %v, want ErrBufferLength", err)
	}
	if err := c.EncryptWords(make([]uint32, 3)); !errors.Is(err, blowfish.ErrBufferLength) {
		t.Fatalf("EncryptWords: got %v, want ErrBufferLength", err)
	}
}

func BenchmarkEncryptBlock(b *testing.B) {
	c := blowfish.NewECB([]byte("benchmark key"))
	var block uint64
	b.SetBytes(blowfish.BlockSize)
	for i := 0; i < b.N; i++ {
		block = c.EncryptBlock(block)
	}
}

func BenchmarkNewECB(b *testing.B) {
	key := []byte("benchmark key")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = blowfish.NewECB(key)
	}
}
