package encryption_test

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // fixed by the vault wire format
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hasbyte1/go-vault-crypto/encryption"
	"github.com/hasbyte1/go-vault-crypto/encryption/blowfish"
)

const testPassphrase = "passphrase"

var testIV = []byte{1, 2, 3, 4, 5, 6, 7, 8}

func newBlowfish(t testing.TB, opts ...encryption.Option) *encryption.Blowfish {
	t.Helper()
	enc := encryption.NewBlowfish(opts...)
	if err := enc.Seed(testPassphrase); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return enc
}

// ──────────────────────────────────────────────────────────────────────────────
// Known-answer wire strings
// ──────────────────────────────────────────────────────────────────────────────

func TestBlowfish_EncryptWithIV_KnownAnswers(t *testing.T) {
	tests := []struct {
		name  string
		plain string
		wire  string
	}{
		{"empty", "", "010203040506070877d122e6aeff54b6"},
		{"ascii", "secret", "010203040506070854d15fea302057cab16a0f73faec6170"},
		{"three blocks", "hello world", "010203040506070809bc7f5e9e884812214cdaf6dda2b9027172d95f1f4d4018"},
		{"non-ascii", "Grüße, 日本", "01020304050607084a0293f9b9b4d50cceec5c761b8f9bfc7ffb0cc029bbd258"},
	}
	enc := newBlowfish(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.EncryptWithIV(tt.plain, testIV)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.wire {
				t.Fatalf("EncryptWithIV(%q) = %s, want %s", tt.plain, got, tt.wire)
			}
			plain, err := enc.Decrypt(tt.wire)
			if err != nil {
				t.Fatal(err)
			}
			if plain != tt.plain {
				t.Fatalf("Decrypt = %q, want %q", plain, tt.plain)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Round trips
// ──────────────────────────────────────────────────────────────────────────────

func TestBlowfish_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"abcd",
		"exactly8",
		"credential with spaces",
		"unicode: 日本語 🔐",
		"\x00\x01 control",
		strings.Repeat("long secret ", 200),
	}
	for _, secret := range []string{"", "short", "a much longer passphrase than fifty-six bytes, which SHA-1 folds anyway"} {
		enc, err := encryption.NewSeeded(encryption.SchemeBlowfish, secret)
		if err != nil {
			t.Fatal(err)
		}
		for _, in := range inputs {
			wire, err := enc.Encrypt(in)
			if err != nil {
				t.Fatalf("Encrypt(%q): %v", in, err)
			}
			if wire != strings.ToLower(wire) {
				t.Fatalf("wire form must be lowercase: %s", wire)
			}
			got, err := enc.Decrypt(wire)
			if err != nil {
				t.Fatalf("Decrypt(%s): %v", wire, err)
			}
			if got != in {
				t.Fatalf("round-trip mismatch: got %q, want %q", got, in)
			}
		}
	}
}

func TestBlowfish_DecryptAcceptsUppercase(t *testing.T) {
	enc := newBlowfish(t)
	wire, _ := enc.EncryptWithIV("secret", testIV)
	got, err := enc.Decrypt(strings.ToUpper(wire))
	if err != nil {
		t.Fatal(err)
	}
	if got != "secret" {
		t.Fatalf("got %q", got)
	}
}

func TestBlowfish_EncryptProducesUniqueOutputs(t *testing.T) {
	enc := newBlowfish(t)
	a, _ := enc.Encrypt("same message encrypted twice")
	b, _ := enc.Encrypt("same message encrypted twice")
	if a == b {
		t.Error("two encryptions of the same plaintext must use different IVs")
	}
	if a[:16] == b[:16] {
		t.Error("IV prefixes must differ")
	}
}

func TestBlowfish_DifferentPassphrasesDoNotDecrypt(t *testing.T) {
	a := newBlowfish(t)
	b := encryption.NewBlowfish()
	_ = b.Seed("other passphrase")

	wire, _ := a.EncryptWithIV("secret", testIV)
	got, err := b.Decrypt(wire)
	if err == nil && got == "secret" {
		t.Fatal("a different passphrase must not recover the plaintext")
	}
}

func TestBlowfish_SeedReplacesKey(t *testing.T) {
	enc := newBlowfish(t)
	before, _ := enc.EncryptWithIV("secret", testIV)
	if err := enc.Seed("rotated"); err != nil {
		t.Fatal(err)
	}
	after, _ := enc.EncryptWithIV("secret", testIV)
	if before == after {
		t.Fatal("Seed must replace the previous key")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Padding
// ──────────────────────────────────────────────────────────────────────────────

// rawBlocks decrypts the ciphertext part of wire without unpadding.
func rawBlocks(t *testing.T, wire string) []byte {
	t.Helper()
	sum := sha1.Sum([]byte(testPassphrase)) //nolint:gosec
	iv, _ := hex.DecodeString(wire[:16])
	buf, _ := hex.DecodeString(wire[16:])
	c := blowfish.NewCBC(sum[:], binary.BigEndian.Uint64(iv))
	if err := c.DecryptBytes(buf); err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestBlowfish_PadValue(t *testing.T) {
	enc := newBlowfish(t)
	for n := 0; n <= 9; n++ {
		wire, err := enc.EncryptWithIV(strings.Repeat("x", n), testIV)
		if err != nil {
			t.Fatal(err)
		}
		buf := rawBlocks(t, wire)
		if len(buf)%8 != 0 {
			t.Fatalf("n=%d: buffer length %d is not block aligned", n, len(buf))
		}
		wantPad := len(buf) - 2*n
		if wantPad < 2 || wantPad > 8 || wantPad%2 != 0 {
			t.Fatalf("n=%d: pad length %d outside {2,4,6,8}", n, wantPad)
		}
		for _, p := range buf[2*n:] {
			if int(p) != wantPad {
				t.Fatalf("n=%d: pad byte %d, want %d", n, p, wantPad)
			}
		}
	}
}

// wireFor encrypts a raw 8-byte-aligned buffer the way the vault would.
func wireFor(t *testing.T, raw []byte) string {
	t.Helper()
	sum := sha1.Sum([]byte(testPassphrase)) //nolint:gosec
	buf := append([]byte(nil), raw...)
	c := blowfish.NewCBC(sum[:], binary.BigEndian.Uint64(testIV))
	if err := c.EncryptBytes(buf); err != nil {
		t.Fatal(err)
	}
	return hex.EncodeToString(testIV) + hex.EncodeToString(buf)
}

func TestBlowfish_OutOfRangePadTreatedAsZero(t *testing.T) {
	wire := wireFor(t, []byte{0, 'A', 0, 'B', 0, 'C', 0, 0x20})

	got, err := newBlowfish(t).Decrypt(wire)
	if err != nil {
		t.Fatal(err)
	}
	if got != "ABC " {
		t.Fatalf("got %q, want %q", got, "ABC ")
	}
}

func TestBlowfish_StrictPaddingRejectsOutOfRangePad(t *testing.T) {
	wire := wireFor(t, []byte{0, 'A', 0, 'B', 0, 'C', 0, 0x20})

	_, err := newBlowfish(t, encryption.WithStrictPadding()).Decrypt(wire)
	if !errors.Is(err, encryption.ErrPaddingRange) {
		t.Fatalf("got %v, want ErrPaddingRange", err)
	}
}

func TestBlowfish_ZeroPadKeepsWholeBuffer(t *testing.T) {
	wire := wireFor(t, []byte{0, 'h', 0, 'i', 0, '!', 0, 0})

	got, err := newBlowfish(t, encryption.WithStrictPadding()).Decrypt(wire)
	if err != nil {
		t.Fatal(err)
	}
	if got != "hi!\x00" {
		t.Fatalf("got %q", got)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Malformed input
// ──────────────────────────────────────────────────────────────────────────────

func TestBlowfish_Decrypt_Malformed(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"empty", ""},
		{"shorter than IV", "0123"},
		{"IV only", "0102030405060708"},
		{"IV and partial block", "0102030405060708aabbccdd"},
		{"non-hex IV", "zz02030405060708aabbccddeeff0011"},
		{"non-hex body", "0102030405060708aabbccddeeff00zz"},
	}
	enc := newBlowfish(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := enc.Decrypt(tt.wire)
			if !errors.Is(err, encryption.ErrMalformedCiphertext) {
				t.Fatalf("got (%q, %v), want ErrMalformedCiphertext", got, err)
			}
		})
	}
}

func TestBlowfish_Decrypt_IgnoresTrailingResidue(t *testing.T) {
	enc := newBlowfish(t)
	wire, _ := enc.EncryptWithIV("secret", testIV)
	for _, suffix := range []string{"f", "abc", "0011223344"} {
		got, err := enc.Decrypt(wire + suffix)
		if err != nil {
			t.Fatalf("suffix %q: %v", suffix, err)
		}
		if got != "secret" {
			t.Fatalf("suffix %q: got %q", suffix, got)
		}
	}
}

func TestBlowfish_RejectsBadIV(t *testing.T) {
	enc := newBlowfish(t)
	if _, err := enc.EncryptWithIV("x", []byte{1, 2, 3}); !errors.Is(err, encryption.ErrInvalidIV) {
		t.Fatalf("got %v, want ErrInvalidIV", err)
	}
}

func TestBlowfish_DecryptWithIVIgnoresIV(t *testing.T) {
	enc := newBlowfish(t)
	wire, _ := enc.EncryptWithIV("secret", testIV)
	got, err := enc.DecryptWithIV(wire, []byte("ignored"))
	if err != nil || got != "secret" {
		t.Fatalf("got (%q, %v)", got, err)
	}
}

func TestBlowfish_NotSeeded(t *testing.T) {
	enc := encryption.NewBlowfish()
	if _, err := enc.Encrypt("x"); !errors.Is(err, encryption.ErrNotSeeded) {
		t.Fatalf("Encrypt: got %v, want ErrNotSeeded", err)
	}
	if _, err := enc.Decrypt("0102030405060708aabbccddeeff0011"); !errors.Is(err, encryption.ErrNotSeeded) {
		t.Fatalf("Decrypt: got %v, want ErrNotSeeded", err)
	}
}

func TestBlowfish_RandomSourceFailure(t *testing.T) {
	enc := newBlowfish(t, encryption.WithRandom(bytes.NewReader([]byte{1, 2, 3})))
	if _, err := enc.Encrypt("x"); err == nil {
		t.Fatal("expected error from exhausted random source")
	}
}

func TestBlowfish_WithRandomIsDeterministic(t *testing.T) {
	enc := newBlowfish(t, encryption.WithRandom(bytes.NewReader(testIV)))
	got, err := enc.Encrypt("secret")
	if err != nil {
		t.Fatal(err)
	}
	if want := "010203040506070854d15fea302057cab16a0f73faec6170"; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestBlowfish_AppearsEncrypted(t *testing.T) {
	enc := newBlowfish(t)
	wire, _ := enc.Encrypt("secret")
	tests := []struct {
		in   string
		want bool
	}{
		{wire, true},
		{"", false},
		{"0102030405060708", false},
		{"0102030405060708aabbccddeeff001", false},
		{"0102030405060708aabbccddeeff00zz", false},
		{"hunter2", false},
	}
	for _, tt := range tests {
		if got := enc.AppearsEncrypted(tt.in); got != tt.want {
			t.Errorf("AppearsEncrypted(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrency
// ──────────────────────────────────────────────────────────────────────────────

func TestBlowfish_ConcurrentUse(t *testing.T) {
	enc := newBlowfish(t)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			msg := strings.Repeat(string(rune('a'+g)), 10+g)
			for i := 0; i < 50; i++ {
				wire, err := enc.Encrypt(msg)
				if err != nil {
					errs <- err
					return
				}
				got, err := enc.Decrypt(wire)
				if err != nil {
					errs <- err
					return
				}
				if got != msg {
					errs <- errors.New("messages chained into each other: got " + got)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
