package blowfish_test

import (
	"bytes"
	"crypto/cipher"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hasbyte1/go-vault-crypto/encryption/blowfish"
)

func TestCBC_IdenticalBlocksDiffer(t *testing.T) {
	c := blowfish.NewCBC([]byte("chain key"), 0)
	a := c.EncryptBlock(0x4141414141414141)
	b := c.EncryptBlock(0x4141414141414141)
	if a == b {
		t.Fatal("CBC must not map consecutive equal blocks to equal ciphertext")
	}
	if c.IV() != b {
		t.Fatalf("chain state = %016x, want last ciphertext %016x", c.IV(), b)
	}
}

func TestCBC_BlockRoundTrip(t *testing.T) {
	key := []byte("round trip")
	const iv = 0x0102030405060708
	plain := []uint64{0, 1, 0xffffffffffffffff, 1, 0}

	enc := blowfish.NewCBC(key, iv)
	blocks := append([]uint64(nil), plain...)
	enc.EncryptBlocks(blocks)

	dec := blowfish.NewCBC(key, iv)
	dec.DecryptBlocks(blocks)
	if diff := cmp.Diff(plain, blocks); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
	if dec.IV() != enc.IV() {
		t.Fatalf("chain states diverged: enc %016x, dec %016x", enc.IV(), dec.IV())
	}
}

func TestCBC_MatchesStandardLibraryMode(t *testing.T) {
	key := []byte("stdlib agreement")
	iv := []byte{8, 7, 6, 5, 4, 3, 2, 1}
	plain := bytes.Repeat([]byte("vaultpw!"), 5)

	ecb := blowfish.NewECB(key)
	want := make([]byte, len(plain))
	cipher.NewCBCEncrypter(ecb, iv).CryptBlocks(want, plain)

	c := blowfish.NewCBCFromECB(ecb, 0)
	if err := c.SetIVBytes(iv); err != nil {
		t.Fatal(err)
	}
	got := append([]byte(nil), plain...)
	if err := c.EncryptBytes(got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("EncryptBytes = %x, want %x", got, want)
	}

	if err := c.SetIVBytes(iv); err != nil {
		t.Fatal(err)
	}
	if err := c.DecryptBytes(got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("DecryptBytes = %q, want %q", got, plain)
	}
}

func TestCBC_Words(t *testing.T) {
	key := []byte("words")
	words := []uint32{0x30553228, 0x6d6f295a, 0x30553228, 0x6d6f295a}
	orig := append([]uint32(nil), words...)

	enc := blowfish.NewCBC(key, 0)
	if err := enc.EncryptWords(words); err != nil {
		t.Fatal(err)
	}
	if words[0] == words[2] && words[1] == words[3] {
		t.Fatal("chained word pairs must differ")
	}

	dec := blowfish.NewCBC(key, 0)
	if err := dec.DecryptWords(words); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(orig, words); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCBC_ZeroIVFirstBlockEqualsECB(t *testing.T) {
	key := []byte("zero iv")
	ecb := blowfish.NewECB(key)
	c := blowfish.NewCBCFromECB(ecb, 0)
	if c.EncryptBlock(0x1122334455667788) != ecb.EncryptBlock(0x1122334455667788) {
		t.Fatal("with a zero IV the first CBC block must equal the ECB block")
	}
}

func TestCBC_IVBytes(t *testing.T) {
	c := blowfish.NewCBC([]byte("iv"), 0x0102030405060708)
	if diff := cmp.Diff([]byte{1, 2, 3, 4, 5, 6, 7, 8}, c.IVBytes()); diff != "" {
		t.Fatalf("IVBytes mismatch (-want +got):\n%s", diff)
	}
	if err := c.SetIVBytes([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for short IV")
	}
	c.SetIV(7)
	if c.IV() != 7 {
		t.Fatalf("IV = %d, want 7", c.IV())
	}
}
