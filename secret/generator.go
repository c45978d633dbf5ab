package secret

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Symbol classes that make up the default alphabet.
const (
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Digits  = "0123456789"
	Special = "!@#$%^&*()-_=+"
)

// DefaultLength is the number of symbols produced when no length is set.
const DefaultLength = 21

// DefaultAlphabet is Upper + Lower + Digits + Special.
const DefaultAlphabet = Upper + Lower + Digits + Special

// Generator produces random strings.  It is safe for concurrent use when its
// random source is; the default source, crypto/rand, is.
type Generator struct {
	length   int
	rand     io.Reader
	alphabet []rune
}

// Option configures a [Generator].
type Option func(*Generator)

// WithLength sets the number of symbols per secret.
func WithLength(n int) Option {
	return func(g *Generator) { g.length = n }
}

// WithAlphabet replaces the symbol set.  Repeated symbols are kept and are
// proportionally more likely to be drawn.
func WithAlphabet(symbols string) Option {
	return func(g *Generator) { g.alphabet = []rune(symbols) }
}

// WithRandom replaces crypto/rand as the source of randomness.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// New returns a Generator with [DefaultLength], [DefaultAlphabet] and
// crypto/rand, adjusted by opts.
func New(opts ...Option) *Generator {
	g := &Generator{
		length:   DefaultLength,
		rand:     rand.Reader,
		alphabet: []rune(DefaultAlphabet),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Length returns the configured secret length.
func (g *Generator) Length() int { return g.length }

// Alphabet returns the configured symbol set.
func (g *Generator) Alphabet() string { return string(g.alphabet) }

// Generate returns a new secret of Length symbols.
func (g *Generator) Generate() (string, error) {
	if g.length < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, g.length)
	}
	if len(g.alphabet) == 0 {
		return "", ErrEmptyAlphabet
	}

	// rand.Int rejects out-of-range samples, so every symbol is equally likely.
	size := big.NewInt(int64(len(g.alphabet)))
	var sb strings.Builder
	sb.Grow(g.length)
	for i := 0; i < g.length; i++ {
		n, err := rand.Int(g.rand, size)
		if err != nil {
			return "", fmt.Errorf("secret: failed to draw symbol: %w", err)
		}
		sb.WriteRune(g.alphabet[n.Int64()])
	}
	return sb.String(), nil
}

// MustGenerate is like Generate but panics on error.  It is intended for
// provisioning scripts where a broken random source is fatal anyway.
func (g *Generator) MustGenerate() string {
	s, err := g.Generate()
	if err != nil {
		panic(err)
	}
	return s
}
